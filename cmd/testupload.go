package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"gddi/iqvia"
)

var testUploadCmd = &cobra.Command{
	Use:   "testupload",
	Short: "Check the reporting endpoint accepts the configured credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		log.Println("Authenticating with the reporting endpoint...")
		if !iqvia.TestComm(cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, logLine) {
			return fmt.Errorf("endpoint rejected the configured credentials")
		}
		log.Println("Endpoint communication successful.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(testUploadCmd)
}
