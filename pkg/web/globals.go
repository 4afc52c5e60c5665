// Package web serves the ProtStats wizard: import a quantification table and its
// metadata, preprocess the matrix, then run plots and statistics.
package web

import (
	"log"
	"os"

	"github.com/ChrisMcGann/ProtStats/pkg/config"
)

// Global holds the state shared by every request.
type Global struct {
	log logger

	Site   string
	Config config.Config

	sessions *Store
}

type logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// NewGlobal creates the server state. A nil logger writes to stderr.
func NewGlobal(cfg config.Config, l *log.Logger) *Global {
	if l == nil {
		l = log.New(os.Stderr, log.Prefix(), log.Ldate|log.Ltime)
	}
	return &Global{
		log:      l,
		Site:     cfg.Server.Site,
		Config:   cfg,
		sessions: NewStore(cfg.SessionIdle()),
	}
}
