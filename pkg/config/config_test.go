package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

func TestDefaultValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.MaxUploadBytes() != 200<<20 {
		t.Errorf("MaxUploadBytes() = %d", cfg.MaxUploadBytes())
	}
	if cfg.SessionIdle() != 2*time.Hour {
		t.Errorf("SessionIdle() = %v", cfg.SessionIdle())
	}
}

func TestDecode(t *testing.T) {
	in := `
server:
  address: ":9000"
theme:
  up: "#FF0000"
analysis:
  linkage: complete
  tsne:
    perplexity: 10
  volcano:
    log2fc_threshold: 2
`
	cfg, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if cfg.Server.Address != ":9000" || cfg.Server.Site != "ProtStats" || cfg.Server.MaxUploadMB != 200 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Theme.Up != "#FF0000" || cfg.Theme.Down != "#009599" || len(cfg.Theme.Colorway) != 9 {
		t.Errorf("Theme = %+v", cfg.Theme)
	}
	if cfg.Analysis.Linkage != stats.Complete {
		t.Errorf("Linkage = %q", cfg.Analysis.Linkage)
	}
	if cfg.Analysis.TSNE.Perplexity != 10 || cfg.Analysis.TSNE.Iterations != 1000 {
		t.Errorf("TSNE = %+v", cfg.Analysis.TSNE)
	}
	if cfg.Analysis.Volcano.Log2FCThreshold != 2 || cfg.Analysis.Volcano.MaxAbsoluteLog2FC != 10 {
		t.Errorf("Volcano = %+v", cfg.Analysis.Volcano)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		check func(error) bool
	}{
		{"unknown key", "server:\n  port: 80\n", func(err error) bool { return err != nil }},
		{"bad linkage", "analysis:\n  linkage: ward\n", func(err error) bool { return errors.Is(err, core.ErrUnsupportedMethod) }},
		{"zero upload", "server:\n  max_upload_mb: 0\n", isValidation},
		{"zero session idle", "server:\n  session_idle_minutes: 0\n", isValidation},
		{"threshold above maximum", "analysis:\n  volcano:\n    log2fc_threshold: 20\n", isValidation},
		{"bad perplexity", "analysis:\n  tsne:\n    perplexity: -1\n", isValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.in)); !tt.check(err) {
				t.Errorf("Decode() error = %v", err)
			}
		})
	}
}

func isValidation(err error) bool {
	var verr *core.ValidationError
	return errors.As(err, &verr)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	if err != nil || cfg.Server.Address != Default().Server.Address {
		t.Fatalf("Load(\"\") = %+v, %v", cfg.Server, err)
	}

	path := filepath.Join(t.TempDir(), "protstats.yaml")
	if err := os.WriteFile(path, []byte("server:\n  site: Lab\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Site != "Lab" {
		t.Errorf("Site = %q", cfg.Server.Site)
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); err != nil {
		t.Errorf("empty file error = %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestPlotter(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Linkage = stats.Single
	cfg.Analysis.TSNE.Perplexity = 3
	p := cfg.Plotter(&core.DataSet{})
	if p.Linkage != stats.Single || p.TSNEOptions.Perplexity != 3 || p.Theme.Up != cfg.Theme.Up {
		t.Errorf("Plotter = %+v", p)
	}
}
