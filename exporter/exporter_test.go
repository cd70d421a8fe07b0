package exporter

import (
	"archive/zip"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gddi/config"
	"gddi/model"
)

// fakeProvider serves canned rows keyed by day, with an optional forced error.
type fakeProvider struct {
	movement map[string][]model.MovementRow
	err      error
}

func (f *fakeProvider) day(d time.Time) string { return d.Format("2006-01-02") }

func (f *fakeProvider) Movement(d time.Time, branch int64) ([]model.MovementRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.movement[f.day(d)], nil
}

func (f *fakeProvider) Returns(d time.Time, branch int64) ([]model.ReturnRow, error) {
	return nil, nil
}

func (f *fakeProvider) Branches(d time.Time, branch int64) ([]model.BranchRow, error) {
	if len(f.movement[f.day(d)]) == 0 {
		return nil, nil
	}
	return []model.BranchRow{{BranchCode: branch}}, nil
}

func (f *fakeProvider) Customers(d time.Time, branch int64) ([]model.CustomerRow, error) {
	return nil, nil
}

func (f *fakeProvider) Stock(d time.Time, branch int64) ([]model.StockRow, error) {
	return nil, nil
}

func (f *fakeProvider) Products(d time.Time, branch int64) ([]model.ProductRow, error) {
	return nil, nil
}

func (f *fakeProvider) ProductLookup(d time.Time, branch int64) (map[int64]model.ProductEntry, error) {
	return nil, nil
}

func saleOn(day string) []model.MovementRow {
	return []model.MovementRow{{
		BranchCode:   1,
		CustomerCode: 10,
		ProductCode:  100,
		ExitDate:     day,
		Quantity:     sql.NullInt64{Int64: 1, Valid: true},
		UnitPrice:    sql.NullFloat64{Float64: 9.9, Valid: true},
	}}
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Defaults()
	cfg.ClientID = "abc"
	cfg.OutDir = t.TempDir()
	return cfg
}

func TestDateRange(t *testing.T) {
	from := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	days := DateRange(from, to)
	require.Len(t, days, 4)
	assert.Equal(t, "2026-01-30", days[0].Format("2006-01-02"))
	assert.Equal(t, "2026-02-02", days[3].Format("2006-01-02"))

	assert.Len(t, DateRange(from, from), 1)
}

func TestParseBRDate(t *testing.T) {
	d, err := ParseBRDate(" 15/01/2026 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", d.Format("2006-01-02"))

	_, err = ParseBRDate("2026-01-15")
	assert.Error(t, err)
}

func TestJSONName(t *testing.T) {
	d := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "U_ABC123_20260115.json", JSONName("abc123", d))
}

func TestZipPeriodNamingAndDigest(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, day := range []string{"20260102", "20260101"} {
		p := filepath.Join(dir, fmt.Sprintf("U_ABC_%s.json", day))
		require.NoError(t, os.WriteFile(p, []byte(`{"data":"x"}`), 0644))
		paths = append(paths, p)
	}

	zipPath, digest, err := ZipPeriod(paths, "abc", dir)
	require.NoError(t, err)

	// Named by the first and last day regardless of input order.
	assert.Equal(t, "U_ABC_20260101_20260102.zip", filepath.Base(zipPath))

	data, err := os.ReadFile(zipPath)
	require.NoError(t, err)
	sum := md5.Sum(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), digest)

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 2)
	assert.Equal(t, "U_ABC_20260101.json", zr.File[0].Name)
	assert.Equal(t, "U_ABC_20260102.json", zr.File[1].Name)
}

func TestZipPeriodEmptyInput(t *testing.T) {
	_, _, err := ZipPeriod(nil, "abc", t.TempDir())
	assert.Error(t, err)
}

func TestRunPeriodWritesFilesAndArchive(t *testing.T) {
	cfg := testConfig(t)
	p := &fakeProvider{movement: map[string][]model.MovementRow{
		"2026-01-15": saleOn("2026-01-15"),
		"2026-01-16": saleOn("2026-01-16"),
	}}

	var logs []string
	logf := func(s string) { logs = append(logs, s) }

	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC)
	require.NoError(t, RunPeriod(p, cfg, from, to, Options{}, logf))

	// Two days had rows; the third produced nothing and no file.
	for _, name := range []string{"U_ABC_20260115.json", "U_ABC_20260116.json"} {
		data, err := os.ReadFile(filepath.Join(cfg.OutDir, name))
		require.NoError(t, err)

		var env map[string]any
		require.NoError(t, json.Unmarshal(data, &env))
		assert.Len(t, env["vendas"], 1)
	}
	_, err := os.Stat(filepath.Join(cfg.OutDir, "U_ABC_20260117.json"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(cfg.OutDir, "U_ABC_20260115_20260116.zip"))
	assert.NoError(t, err)

	joined := strings.Join(logs, "\n")
	assert.Contains(t, joined, "MD5:")
	assert.Contains(t, joined, "Period complete.")
}

func TestRunPeriodEmptyPeriodSkipsArchive(t *testing.T) {
	cfg := testConfig(t)
	p := &fakeProvider{}

	var logs []string
	logf := func(s string) { logs = append(logs, s) }

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, RunPeriod(p, cfg, from, to, Options{}, logf))

	entries, err := os.ReadDir(cfg.OutDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Contains(t, strings.Join(logs, "\n"), "WARN: no JSON files were generated")
}

func TestRunPeriodPropagatesProviderError(t *testing.T) {
	cfg := testConfig(t)
	p := &fakeProvider{err: fmt.Errorf("connection lost")}

	d := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	err := RunPeriod(p, cfg, d, d, Options{}, func(string) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection lost")
}

func TestRunPeriodRejectsInvertedPeriod(t *testing.T) {
	cfg := testConfig(t)
	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	err := RunPeriod(&fakeProvider{}, cfg, from, to, Options{}, func(string) {})
	assert.Error(t, err)
}

func TestRunPeriodValidatesPersistedBytes(t *testing.T) {
	cfg := testConfig(t)
	p := &fakeProvider{movement: map[string][]model.MovementRow{
		"2026-01-15": saleOn("2026-01-15"),
	}}

	var logs []string
	logf := func(s string) { logs = append(logs, s) }

	d := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, RunPeriod(p, cfg, d, d, Options{Validate: true}, logf))

	assert.Contains(t, strings.Join(logs, "\n"), "Layout check passed.")
}
