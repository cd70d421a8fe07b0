package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"gddi/iqvia"
)

var statusCmd = &cobra.Command{
	Use:   "status [upload-id]",
	Short: "Show upload history, or query the endpoint for one upload's state",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		historyPath := filepath.Join(cfg.OutDir, "upload_history.json")

		if len(args) == 0 {
			entries, err := iqvia.LoadHistory(historyPath)
			if err != nil {
				return fmt.Errorf("failed to read upload history: %w", err)
			}
			if len(entries) == 0 {
				log.Println("No uploads recorded.")
				return nil
			}
			for key, e := range entries {
				log.Printf("%s  %s  %s", key, e.Timestamp, e.Archive)
			}
			return nil
		}

		token := iqvia.GetToken(cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, logLine)
		if token == "" {
			return fmt.Errorf("token acquisition failed")
		}
		status := iqvia.CheckUploadStatus(cfg.UploadURL, args[0], token)
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
