package app

import (
	"fmt"
	"path/filepath"

	"tsvplot/hal"
	"tsvplot/internal/buildinfo"
	"tsvplot/plot"
	"tsvplot/table"
)

// Config describes one run of the pipeline.
type Config struct {
	// Path is the tab-separated input file.
	Path string
	// Text selects how text columns are plotted. The zero value skips them.
	Text plot.TextPolicy
	// Logger receives warnings. Nil discards them.
	Logger hal.Logger
	// Run opens the display surface.
	Run plot.Runner
}

// Run loads cfg.Path, builds the figure and shows it. It blocks until the
// display is dismissed. Nothing is rendered if loading fails.
func Run(cfg Config) error {
	t, err := table.Load(cfg.Path)
	if err != nil {
		return err
	}

	f, err := plot.New(t, plot.Options{Title: Title(cfg.Path), Text: cfg.Text})
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Path, err)
	}
	if cfg.Logger != nil {
		for _, name := range f.Skipped() {
			cfg.Logger.WriteLineString(fmt.Sprintf("WARN: %s: column %s is not numeric, not plotted", cfg.Path, name))
		}
	}

	return f.Show(cfg.Run)
}

// Title returns the window title for an input path.
func Title(path string) string {
	return filepath.Base(path) + " - tsvplot (" + buildinfo.Short() + ")"
}
