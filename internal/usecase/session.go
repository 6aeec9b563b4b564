package usecase

import (
	"errors"
	"sync"

	"ReviewConsole/internal/console"
	"ReviewConsole/internal/progress"
	"ReviewConsole/internal/query"
)

// Session remembers the last query that parsed for each view. When a new
// query fails to parse, the view is rendered with the remembered query
// instead, flagged invalid, and never with a partial filter. Before any
// query has parsed the fallback is the unfiltered view.
type Session struct {
	mu        sync.Mutex
	lastValid map[string]string
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{lastValid: make(map[string]string)}
}

// LastValid returns the remembered query for a view.
func (s *Session) LastValid(view string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastValid[view]
}

// Render renders req, falling back on parse errors. The returned error is
// the original *query.ParseError even when the fallback succeeds.
func (s *Session) Render(pass *progress.Pass, view console.View, req console.Request) (console.Table, error) {
	table, err := view.Render(pass, req)
	if err == nil {
		s.mu.Lock()
		s.lastValid[view.Name()] = req.Query
		s.mu.Unlock()
		return table, nil
	}

	var parseErr *query.ParseError
	if !errors.As(err, &parseErr) {
		return console.Table{}, err
	}

	fallback := req
	fallback.Query = s.LastValid(view.Name())
	table, fallbackErr := view.Render(pass, fallback)
	if fallbackErr != nil {
		return console.Table{}, errors.Join(err, fallbackErr)
	}
	table.Invalid = true
	return table, err
}
