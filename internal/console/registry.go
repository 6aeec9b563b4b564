// Package console defines the tables the review console renders and the
// queries each of them accepts.
package console

import (
	"errors"
	"fmt"
	"slices"

	"ReviewConsole/internal/progress"
	"ReviewConsole/internal/query"
)

var (
	// ErrUnknownView is returned when no view is registered under a name.
	ErrUnknownView = errors.New("unknown view")
	// ErrUnknownSortKey is returned when a sort key is not a view property.
	ErrUnknownSortKey = errors.New("unknown sort key")
)

// Request carries the user's search box input and sort choice.
type Request struct {
	Query  string
	SortBy string
	Desc   bool
}

// Table is one rendered view. Rows keep their concrete row types.
type Table struct {
	View    string         `json:"view"`
	Query   string         `json:"query,omitempty"`
	Total   int            `json:"total"`
	Matched int            `json:"matched"`
	Invalid bool           `json:"invalid,omitempty"`
	Rows    []query.Record `json:"rows"`
}

// View turns a pass into one filterable table.
type View interface {
	Name() string
	Schema() query.Schema
	Render(pass *progress.Pass, req Request) (Table, error)
}

// Registry keeps a mapping from view names to their implementations.
type Registry struct {
	views map[string]View
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{views: map[string]View{}}
}

// DefaultRegistry registers the papers, reviewers and area chairs views.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(PapersView())
	r.Register(ReviewersView())
	r.Register(AreaChairsView())
	return r
}

// Register adds or replaces a view.
func (r *Registry) Register(view View) {
	if r.views == nil {
		r.views = map[string]View{}
	}
	r.views[view.Name()] = view
}

// Resolve returns a view by name.
func (r *Registry) Resolve(name string) (View, error) {
	if view, ok := r.views[name]; ok {
		return view, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownView, name)
}

// Names lists the registered views.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.views))
	for name := range r.views {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
