package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/theglowcode/ai-nyr-analysis/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nyr configuration",
	Long:  `View and manage nyr configuration settings.`,
}

// configShowCmd shows the resolved configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := model.DefaultConfig()
		applyViper(&cfg)

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Printf("# config file: %s\n", file)
		}
		fmt.Print(string(data))
		fmt.Println()
		fmt.Println("Settings are resolved in order:")
		fmt.Println("  1. command-line flags")
		fmt.Println("  2. NYR_* environment variables (plus OPENAI_API_KEY)")
		fmt.Println("  3. config file (~/.nyr/config.yaml)")
		fmt.Println("  4. built-in defaults")
		return nil
	},
}

// configInitCmd writes a default config file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		dir := filepath.Join(home, ".nyr")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		data, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		header := "# nyr configuration\n" +
			"# Values here are overridden by NYR_* environment variables and flags.\n" +
			"# The OpenAI API key is read from OPENAI_API_KEY only.\n\n"
		if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Printf("Config file written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
