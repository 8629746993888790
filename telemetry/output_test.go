package telemetry

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/mercurial/config"
)

func TestNilOutputManagerDiscards(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v, %v", om, err)
	}
	if err := om.WritePerf(PerfStats{}, 1); err != nil {
		t.Error(err)
	}
	if err := om.WriteRelief([]ReliefPass{{Pass: 1}}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("expected empty dir")
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := om.WriteRelief([]ReliefPass{{Pass: 1, DurationUS: 10}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteRelief([]ReliefPass{{Pass: 2, Rerun: true}, {Pass: 3}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteStats(FrameStats{WindowEnd: 60, Mode: "live"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteImage("final.png", image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "relief.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "pass,rerun,duration_us") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(string(data), "pass,") != 1 {
		t.Error("expected a single header line")
	}

	if _, err := os.Stat(filepath.Join(dir, "final.png")); err != nil {
		t.Errorf("expected image to be written: %v", err)
	}
}

func TestOutputManagerWritesConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}
