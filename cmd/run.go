package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"gddi/exporter"
)

var (
	runFrom     string
	runTo       string
	runUpload   bool
	runValidate bool
	runLayout   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a period: extract, map, persist, archive and optionally upload",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		if runFrom == "" {
			runFrom = cfg.LastFrom
		}
		if runTo == "" {
			runTo = cfg.LastTo
		}
		from, err := exporter.ParseBRDate(runFrom)
		if err != nil {
			return fmt.Errorf("invalid --from %q (want dd/mm/yyyy): %w", runFrom, err)
		}
		to, err := exporter.ParseBRDate(runTo)
		if err != nil {
			return fmt.Errorf("invalid --to %q (want dd/mm/yyyy): %w", runTo, err)
		}

		opts := exporter.Options{Upload: cfg.UploadDefault, Validate: cfg.ValidationEnabled}
		if cmd.Flags().Changed("upload") {
			opts.Upload = runUpload
		}
		if cmd.Flags().Changed("validate") {
			opts.Validate = runValidate
		}

		cfg.LastFrom = from.Format("02/01/2006")
		cfg.LastTo = to.Format("02/01/2006")
		if err := saveConfig(cfg); err != nil {
			log.Printf("WARN: failed to remember period: %v", err)
		}

		// One-off override, applied after persisting so it does not stick.
		if runLayout != "" {
			cfg.LayoutExamplePath = runLayout
		}

		start := time.Now()
		if err := exporter.Run(cfg, from, to, opts, logLine); err != nil {
			return err
		}
		log.Printf("Done in %s.", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func logLine(msg string) {
	log.Println(msg)
}

func init() {
	runCmd.Flags().StringVar(&runFrom, "from", "", "first day of the period (dd/mm/yyyy)")
	runCmd.Flags().StringVar(&runTo, "to", "", "last day of the period (dd/mm/yyyy)")
	runCmd.Flags().BoolVar(&runUpload, "upload", false, "upload the archive after generating it")
	runCmd.Flags().BoolVar(&runValidate, "validate", false, "check each day's payload against the layout")
	runCmd.Flags().StringVar(&runLayout, "layout-example", "", "layout example JSON to derive the check from")
	rootCmd.AddCommand(runCmd)
}
