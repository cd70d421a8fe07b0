// Package exporter drives a reporting period end to end: fetch each day's
// rows, map them into the regulator layout, optionally validate, persist the
// daily files, archive the period and optionally ship the archive.
package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gddi/config"
	"gddi/database"
	"gddi/iqvia"
	"gddi/model"
	"gddi/payload"
	"gddi/validator"
)

// Provider is the tabular data source the orchestrator reads from. One day's
// worth of rows per call, keyed by date and branch. *database.Source is the
// production implementation.
type Provider interface {
	Movement(d time.Time, branch int64) ([]model.MovementRow, error)
	Returns(d time.Time, branch int64) ([]model.ReturnRow, error)
	Branches(d time.Time, branch int64) ([]model.BranchRow, error)
	Customers(d time.Time, branch int64) ([]model.CustomerRow, error)
	Stock(d time.Time, branch int64) ([]model.StockRow, error)
	Products(d time.Time, branch int64) ([]model.ProductRow, error)
	ProductLookup(d time.Time, branch int64) (map[int64]model.ProductEntry, error)
}

// Options are the per-run switches on top of the static configuration.
type Options struct {
	Upload   bool
	Validate bool
}

// Per-day cap on logged layout discrepancies; a broken mapper would
// otherwise drown the log.
const maxLoggedIssues = 200

// Run opens the configured database, processes the period and guarantees the
// connection is closed when it is done.
func Run(cfg config.Config, from, to time.Time, opts Options, logf iqvia.Logger) error {
	logf("Connecting to the retail database...")
	src, err := database.Open(cfg.SourceDriver, cfg.SourceDSN)
	if err != nil {
		return err
	}
	defer src.Close()
	logf("Connected.")

	return RunPeriod(src, cfg, from, to, opts, logf)
}

// RunPeriod processes every day from `from` to `to` against an already-open
// provider. A database failure aborts the run; validation discrepancies and
// upload problems are logged and survived.
func RunPeriod(p Provider, cfg config.Config, from, to time.Time, opts Options, logf iqvia.Logger) error {
	if to.Before(from) {
		return fmt.Errorf("period end %s is before start %s",
			to.Format("02/01/2006"), from.Format("02/01/2006"))
	}
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	var spec validator.Object
	if opts.Validate {
		spec = validator.LoadSpec(cfg.LayoutExamplePath)
	}

	var jsonPaths []string
	for _, d := range DateRange(from, to) {
		logf("Processing day " + d.Format("02/01/2006"))

		env, empty, err := buildDay(p, cfg, d)
		if err != nil {
			return err
		}
		if empty {
			logf("No rows for " + d.Format("02/01/2006") + "; nothing to persist.")
			continue
		}

		data, err := MarshalEnvelope(env)
		if err != nil {
			return fmt.Errorf("failed to serialize payload for %s: %w", d.Format("2006-01-02"), err)
		}

		if opts.Validate {
			validateDay(data, spec, logf)
		}

		path, err := SaveJSON(data, cfg.ClientID, d, cfg.OutDir)
		if err != nil {
			return err
		}
		logf("JSON saved: " + filepath.Base(path))
		jsonPaths = append(jsonPaths, path)
	}

	if len(jsonPaths) == 0 {
		logf("WARN: no JSON files were generated; skipping archive.")
		return nil
	}

	logf("Generating period archive...")
	zipPath, digest, err := ZipPeriod(jsonPaths, cfg.ClientID, cfg.OutDir)
	if err != nil {
		return err
	}
	logf(fmt.Sprintf("Archive created: %s (MD5: %s)", filepath.Base(zipPath), digest))

	if opts.Upload {
		uploadArchive(cfg, zipPath, logf)
	}

	logf("Period complete.")
	return nil
}

// buildDay fetches one day's row-sets and maps them into the envelope. The
// empty flag is set when every row-set came back empty, so the caller can
// skip persisting a file that reports nothing.
func buildDay(p Provider, cfg config.Config, d time.Time) (model.Envelope, bool, error) {
	movement, err := p.Movement(d, cfg.BranchCode)
	if err != nil {
		return model.Envelope{}, false, err
	}
	returns, err := p.Returns(d, cfg.BranchCode)
	if err != nil {
		return model.Envelope{}, false, err
	}
	branches, err := p.Branches(d, cfg.BranchCode)
	if err != nil {
		return model.Envelope{}, false, err
	}
	customers, err := p.Customers(d, cfg.BranchCode)
	if err != nil {
		return model.Envelope{}, false, err
	}
	stock, err := p.Stock(d, cfg.BranchCode)
	if err != nil {
		return model.Envelope{}, false, err
	}
	products, err := p.Products(d, cfg.BranchCode)
	if err != nil {
		return model.Envelope{}, false, err
	}
	lookup, err := p.ProductLookup(d, cfg.BranchCode)
	if err != nil {
		return model.Envelope{}, false, err
	}

	empty := len(movement) == 0 && len(returns) == 0 && len(branches) == 0 &&
		len(customers) == 0 && len(stock) == 0 && len(products) == 0

	ctx := payload.BuildContext{Date: d, ClientID: cfg.ClientID, EstabCode: cfg.EstabCode}
	return payload.Build(movement, returns, branches, customers, stock, products, lookup, ctx), empty, nil
}

// validateDay checks the exact bytes about to be persisted against the
// layout. Discrepancies are warnings, never a reason to stop the run.
func validateDay(data []byte, spec validator.Object, logf iqvia.Logger) {
	decoded, err := validator.Decode(data)
	if err != nil {
		logf("WARN: validation skipped, payload not decodable: " + err.Error())
		return
	}
	issues := validator.Validate(decoded, spec)
	if len(issues) == 0 {
		logf("Layout check passed.")
		return
	}
	logf(fmt.Sprintf("WARN: layout check found %d discrepancies:", len(issues)))
	for i, msg := range issues {
		if i == maxLoggedIssues {
			logf(fmt.Sprintf("WARN: ... %d more suppressed", len(issues)-maxLoggedIssues))
			break
		}
		logf("WARN:   " + msg)
	}
}

// uploadArchive authenticates and ships the archive. Any failure downgrades
// to a warning: the files and the archive are already on disk, and the
// operator can retry the upload alone.
func uploadArchive(cfg config.Config, zipPath string, logf iqvia.Logger) {
	logf("Authenticating with the reporting endpoint...")
	token := iqvia.GetToken(cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, logf)
	if token == "" {
		logf("WARN: token acquisition failed; upload cancelled.")
		return
	}

	logf("Sending archive...")
	response, err := iqvia.UploadZip(cfg.UploadURL, zipPath, token, logf)
	if err != nil {
		logf("WARN: upload failed: " + err.Error())
		return
	}
	logf(fmt.Sprintf("Endpoint response: %v", response))

	historyPath := filepath.Join(cfg.OutDir, "upload_history.json")
	key, err := iqvia.RecordUpload(historyPath, response, filepath.Base(zipPath))
	if err != nil {
		logf("WARN: upload accepted but history not recorded: " + err.Error())
		return
	}
	logf("Upload recorded under " + key)
}
