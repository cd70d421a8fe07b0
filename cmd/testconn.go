package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"gddi/database"
)

var testConnCmd = &cobra.Command{
	Use:   "testconn",
	Short: "Check the retail database is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		log.Println("Connecting to the retail database...")
		src, err := database.Open(cfg.SourceDriver, cfg.SourceDSN)
		if err != nil {
			return err
		}
		defer src.Close()

		if err := src.Ping(); err != nil {
			return err
		}
		log.Println("Database connection successful.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(testConnCmd)
}
