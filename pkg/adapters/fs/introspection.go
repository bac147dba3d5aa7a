package fs

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path      string  `json:"path"`
	MustExist bool    `json:"must_exist"`
	Versioned bool    `json:"versioned"`
	Ops       opStats `json:"ops"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Path:      s.Path,
		MustExist: s.config.MustExist,
		Ops:       s.stats,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs"
}

// State implements introspection.Introspectable.
func (v *VersionedStore) State() any {
	st := v.Store.State().(StoreState)
	st.Versioned = true
	return st
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
var _ introspection.Introspectable = (*VersionedStore)(nil)
