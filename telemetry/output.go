package telemetry

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/mercurial/config"
)

// OutputManager writes run output: CSV logs, the effective config and final images.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir        string
	perfFile   *os.File
	reliefFile *os.File
	statsFile  *os.File

	perfHeaderWritten   bool
	reliefHeaderWritten bool
	statsHeaderWritten  bool
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []struct {
		name string
		dst  **os.File
	}{
		{"perf.csv", &om.perfFile},
		{"relief.csv", &om.reliefFile},
		{"stats.csv", &om.statsFile},
	}
	for _, f := range files {
		fh, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}
		*f.dst = fh
	}
	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WritePerf appends a perf window to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame uint64) error {
	if om == nil {
		return nil
	}
	records := []PerfStatsCSV{stats.ToCSV(frame)}
	if err := writeRecords(om.perfFile, records, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteRelief appends completed relief passes to relief.csv.
func (om *OutputManager) WriteRelief(passes []ReliefPass) error {
	if om == nil || len(passes) == 0 {
		return nil
	}
	if err := writeRecords(om.reliefFile, passes, &om.reliefHeaderWritten); err != nil {
		return fmt.Errorf("writing relief: %w", err)
	}
	return nil
}

// WriteStats appends a frame stats window to stats.csv.
func (om *OutputManager) WriteStats(stats FrameStats) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.statsFile, []FrameStats{stats}, &om.statsHeaderWritten); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// WriteImage saves img as a PNG in the output directory.
func (om *OutputManager) WriteImage(name string, img image.Image) error {
	if om == nil || img == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return f.Close()
}

// writeRecords marshals records, writing the header only on the first call.
func writeRecords(w io.Writer, records any, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, w); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, w)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.perfFile, om.reliefFile, om.statsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
