package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AnomalyThreshold != 1.1 || c.SignificancePercent != 20 {
		t.Fatalf("unexpected thresholds: %+v", c)
	}
	if c.StdDevMode != "population" || c.ReportOrder != "mean" || c.OutputFormat != "text" {
		t.Fatalf("unexpected modes: %+v", c)
	}
	if c.ChartWidth != 48 || c.LogFormat != "console" || c.LogLevel != "info" {
		t.Fatalf("unexpected output settings: %+v", c)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("report_order: encounter\nchart_width: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NUTRISCAN_STDDEV_MODE", "sample")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ReportOrder != "encounter" || c.ChartWidth != 30 {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.StdDevMode != "sample" {
		t.Fatalf("env override not applied: %q", c.StdDevMode)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("stddev_mode: median\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := Defaults()
	if err := c.Set("significance_percent", "25"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set("output_format", "md"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.SignificancePercent != 25 || got.OutputFormat != "markdown" {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

func TestSetValidates(t *testing.T) {
	c := Defaults()
	cases := []struct{ key, val string }{
		{"anomaly_threshold", "abc"},
		{"anomaly_threshold", "-1"},
		{"stddev_mode", "median"},
		{"report_order", "alpha"},
		{"chart_width", "2"},
		{"color", "maybe"},
		{"nope", "1"},
	}
	for _, tc := range cases {
		if err := c.Set(tc.key, tc.val); err == nil {
			t.Fatalf("Set(%s, %s) expected error", tc.key, tc.val)
		}
	}
	if c.StdDevMode != "population" || c.AnomalyThreshold != 1.1 {
		t.Fatalf("failed Set mutated config: %+v", c)
	}
	for _, k := range Keys {
		if _, err := c.Get(k); err != nil {
			t.Fatalf("Get(%s): %v", k, err)
		}
	}
}

func TestSetAcceptsZeroThresholds(t *testing.T) {
	c := Defaults()
	if err := c.Set("anomaly_threshold", "0"); err != nil {
		t.Fatalf("Set anomaly_threshold 0: %v", err)
	}
	if err := c.Set("significance_percent", "0"); err != nil {
		t.Fatalf("Set significance_percent 0: %v", err)
	}
	if c.AnomalyThreshold != 0 || c.SignificancePercent != 0 {
		t.Fatalf("zero thresholds not kept: %+v", c)
	}
	if err := c.Set("significance_percent", "-0.1"); err == nil {
		t.Fatalf("expected error for negative significance")
	}
}
