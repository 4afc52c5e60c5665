// Package config loads the optional YAML configuration of the protstats server and
// command line.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/plot"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

// Config is the file layout. Keys left out keep their default.
type Config struct {
	Server   Server     `yaml:"server"`
	Theme    plot.Theme `yaml:"theme"`
	Analysis Analysis   `yaml:"analysis"`
}

// Server configures the web wizard.
type Server struct {
	Address string `yaml:"address"`
	Site    string `yaml:"site"`
	// MaxUploadMB limits the size of one uploaded file.
	MaxUploadMB int64 `yaml:"max_upload_mb"`
	// SessionIdleMinutes drops wizard sessions that saw no request for this long.
	SessionIdleMinutes int `yaml:"session_idle_minutes"`
}

// Analysis holds the defaults of the plotting methods.
type Analysis struct {
	TSNE    stats.TSNEOptions   `yaml:"tsne"`
	Linkage string              `yaml:"linkage"`
	Volcano plot.VolcanoOptions `yaml:"volcano"`
}

// Default returns the configuration used without a file.
func Default() Config {
	return Config{
		Server: Server{
			Address:            "localhost:8501",
			Site:               "ProtStats",
			MaxUploadMB:        200,
			SessionIdleMinutes: 120,
		},
		Theme: plot.DefaultTheme(),
		Analysis: Analysis{
			TSNE:    stats.DefaultTSNEOptions(),
			Linkage: stats.Average,
			Volcano: plot.DefaultVolcanoOptions(),
		},
	}
}

// Load reads the file at path on top of the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML from r on top of the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(buf)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail at the first request.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return &core.ValidationError{Field: "server.address", Message: "must not be empty"}
	}
	if c.Server.MaxUploadMB <= 0 {
		return &core.ValidationError{Field: "server.max_upload_mb", Message: "has to be positive"}
	}
	if c.Server.SessionIdleMinutes <= 0 {
		return &core.ValidationError{Field: "server.session_idle_minutes", Message: "has to be positive"}
	}
	if !contains(stats.LinkageMethods, c.Analysis.Linkage) {
		return core.UnsupportedMethod(c.Analysis.Linkage, strings.Join(stats.LinkageMethods, ", "))
	}
	t := c.Analysis.TSNE
	if t.Components < 1 || t.Iterations < 1 || t.Perplexity <= 0 || t.LearningRate <= 0 {
		return &core.ValidationError{Field: "analysis.tsne", Message: "components, iterations, perplexity and learning_rate have to be positive"}
	}
	if c.Analysis.Volcano.MaxAbsoluteLog2FC <= c.Analysis.Volcano.Log2FCThreshold {
		return &core.ValidationError{Field: "analysis.volcano.max_abs_log2fc", Message: "has to exceed log2fc_threshold"}
	}
	return nil
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

// SessionIdle is how long an unused wizard session is kept.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.Server.SessionIdleMinutes) * time.Minute
}

// Plotter returns a plotter of ds using the configured theme and defaults.
func (c *Config) Plotter(ds *core.DataSet) *plot.Plotter {
	p := plot.New(ds, c.Theme)
	p.TSNEOptions = c.Analysis.TSNE
	p.VolcanoOptions = c.Analysis.Volcano
	p.Linkage = c.Analysis.Linkage
	return p
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
