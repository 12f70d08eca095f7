package main

import (
	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global configuration",
	Long: `Manage global configuration stored in ~/.config/refman/config.yml.

Keys:
  library_path   Default library directory
  default_style  Citation style for 'refman cite' (apa, vancouver, bibtex)
  ncbi_api_key   API key for PubMed fetches (raises the rate limit)`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show configuration values",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

// ConfigResponse is the response for config get commands.
type ConfigResponse struct {
	LibraryPath  string `json:"library_path,omitempty"`
	DefaultStyle string `json:"default_style,omitempty"`
	NCBIAPIKey   string `json:"ncbi_api_key,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	if len(args) == 1 {
		var value string
		switch args[0] {
		case "library_path":
			value = cfg.LibraryPath
		case "default_style":
			value = cfg.DefaultStyle
		case "ncbi_api_key":
			value = cfg.NCBIAPIKey
		default:
			exitWithError(ExitError, "unknown config key %q", args[0])
		}
		if humanOutput {
			outputHuman("%s\n", value)
		} else {
			outputJSON(UpdateResponse{Status: "ok", Key: args[0], Value: value})
		}
		return nil
	}

	if humanOutput {
		outputHuman("library_path: %s\ndefault_style: %s\nncbi_api_key: %s\n",
			cfg.LibraryPath, cfg.DefaultStyle, maskKey(cfg.NCBIAPIKey))
	} else {
		outputJSON(ConfigResponse{
			LibraryPath:  cfg.LibraryPath,
			DefaultStyle: cfg.DefaultStyle,
			NCBIAPIKey:   cfg.NCBIAPIKey,
		})
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	updated := *cfg
	switch key {
	case "library_path":
		updated.LibraryPath = config.ExpandPath(value)
	case "default_style":
		updated.DefaultStyle = value
	case "ncbi_api_key":
		updated.NCBIAPIKey = value
	default:
		exitWithError(ExitError, "unknown config key %q", key)
	}

	if err := config.SaveGlobalConfig(&updated); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if humanOutput {
		outputHuman("Set %s\n", key)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return key
	}
	return key[:4] + "..."
}
