package web

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ChrisMcGann/ProtStats/pkg/analysis"
	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

const cookieName = "protstats_session"

// Session is one user's progress through the wizard. A session is used by one request
// at a time.
type Session struct {
	ID string

	mu       sync.Mutex
	lastUsed time.Time

	// Import step 1
	Software string
	Filename string
	Upload   *core.Table

	// Import step 2
	Source *core.Source

	// Import step 3
	MetadataFilename string
	Metadata         *core.Table

	DataSet *core.DataSet
	Results []*Saved
}

// Saved is one analysis run kept for download.
type Saved struct {
	ID     int
	Method string
	Params map[string]string
	*analysis.Result
}

// Name identifies the result in exports, e.g. "2-volcano".
func (s *Saved) Name() string {
	return fmt.Sprintf("%d-%s", s.ID, s.Method)
}

// Data returns the result table, or the plotting data of a figure.
func (s *Saved) Data() *core.Table {
	if s.Table != nil {
		return s.Table
	}
	if s.Figure != nil && s.Figure.PlottingData != nil {
		return s.Figure.PlottingData
	}
	return core.NewTable(nil, nil)
}

// Result returns the saved result with the given id, or nil.
func (s *Session) Result(id int) *Saved {
	for _, r := range s.Results {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Reset forgets everything but the session id.
func (s *Session) Reset() {
	s.Software, s.Filename, s.Upload = "", "", nil
	s.Source = nil
	s.MetadataFilename, s.Metadata = "", nil
	s.DataSet = nil
	s.Results = nil
}

// Store keeps sessions in memory, keyed by cookie. Sessions idle for longer than the
// configured duration are dropped.
type Store struct {
	idle time.Duration
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore returns an empty store. A non positive idle keeps sessions forever.
func NewStore(idle time.Duration) *Store {
	return &Store{idle: idle, now: time.Now, sessions: make(map[string]*Session)}
}

// Acquire returns the caller's session locked, creating it and setting the cookie when
// needed. The caller must call Release.
func (st *Store) Acquire(w http.ResponseWriter, r *http.Request) *Session {
	st.mu.Lock()
	now := st.now()
	st.expire(now)
	var s *Session
	if c, err := r.Cookie(cookieName); err == nil {
		s = st.sessions[c.Value]
	}
	if s == nil {
		s = &Session{ID: newID()}
		st.sessions[s.ID] = s
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	s.lastUsed = now
	st.mu.Unlock()

	s.mu.Lock()
	return s
}

// expire drops idle sessions. st.mu must be held. Sessions locked by a request are kept.
func (st *Store) expire(now time.Time) {
	if st.idle <= 0 {
		return
	}
	for id, s := range st.sessions {
		if now.Sub(s.lastUsed) <= st.idle || !s.mu.TryLock() {
			continue
		}
		delete(st.sessions, id)
		s.mu.Unlock()
	}
}

// Release unlocks a session returned by Acquire.
func (s *Session) Release() {
	s.mu.Unlock()
}

// Len returns the number of sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func newID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
