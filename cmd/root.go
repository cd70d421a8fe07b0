package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"gddi/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "gddi",
	Short: "Daily retail transaction reporting pipeline",
	Long: `gddi extracts one branch's daily retail transactions, maps them into
the regulator-mandated JSON layout, archives the period and optionally
uploads the archive to the reporting endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath,
		"path to the configuration file")
}

// loadConfig reads the configured file, warning instead of failing when it is
// missing so a fresh checkout still runs with defaults.
func loadConfig() config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("WARN: Failed to load config file: %v. Using defaults.", err)
		cfg = config.Defaults()
	}
	return cfg
}

func saveConfig(cfg config.Config) error {
	return config.Save(cfgPath, cfg)
}
