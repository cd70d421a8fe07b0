package exporter

import (
	"archive/zip"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gddi/model"
)

// DateRange lists every day from `from` to `to`, inclusive.
func DateRange(from, to time.Time) []time.Time {
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ParseBRDate parses the dd/mm/yyyy form used on the command line.
func ParseBRDate(s string) (time.Time, error) {
	return time.Parse("02/01/2006", strings.TrimSpace(s))
}

// MarshalEnvelope renders the payload the way the endpoint expects it:
// pretty-printed UTF-8 without HTML escaping.
func MarshalEnvelope(env model.Envelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSONName is the daily file name mandated by the endpoint:
// U_<CLIENTID>_<YYYYMMDD>.json.
func JSONName(clientID string, d time.Time) string {
	return fmt.Sprintf("U_%s_%s.json", strings.ToUpper(clientID), d.Format("20060102"))
}

// SaveJSON persists one day's serialized payload and returns its path.
func SaveJSON(data []byte, clientID string, d time.Time, outDir string) (string, error) {
	path := filepath.Join(outDir, JSONName(clientID, d))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

// ZipPeriod bundles the period's daily files into a single deflate archive
// named U_<CLIENTID>_<firstdate>_<lastdate>.zip and returns its path and the
// MD5 hex digest of the archive bytes.
func ZipPeriod(jsonPaths []string, clientID, outDir string) (string, string, error) {
	if len(jsonPaths) == 0 {
		return "", "", fmt.Errorf("no files to archive")
	}

	paths := append([]string(nil), jsonPaths...)
	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})

	first := dateStem(paths[0])
	last := dateStem(paths[len(paths)-1])
	zipName := fmt.Sprintf("U_%s_%s_%s.zip", strings.ToUpper(clientID), first, last)
	zipPath := filepath.Join(outDir, zipName)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s for archiving: %w", filepath.Base(p), err)
		}
		w, err := zw.Create(filepath.Base(p))
		if err != nil {
			return "", "", fmt.Errorf("failed to add %s to archive: %w", filepath.Base(p), err)
		}
		if _, err := w.Write(data); err != nil {
			return "", "", fmt.Errorf("failed to write %s to archive: %w", filepath.Base(p), err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", "", fmt.Errorf("failed to finish archive: %w", err)
	}

	if err := os.WriteFile(zipPath, buf.Bytes(), 0644); err != nil {
		return "", "", fmt.Errorf("failed to save archive: %w", err)
	}

	sum := md5.Sum(buf.Bytes())
	return zipPath, hex.EncodeToString(sum[:]), nil
}

// dateStem extracts the YYYYMMDD tail of a daily file name.
func dateStem(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if len(stem) > 8 {
		return stem[len(stem)-8:]
	}
	return stem
}
