package core

import (
	"github.com/aretw0/introspection"
)

// EngineState exposes internal state for observability.
type EngineState struct {
	StoreType   string     `json:"store_type"`
	Versioned   bool       `json:"versioned"`
	Recording   bool       `json:"recording"`
	SettleDelay string     `json:"settle_delay"`
	Runs        int        `json:"runs"`
	LastRun     *RunReport `json:"last_run,omitempty"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	e.mu.RLock()
	defer e.mu.RUnlock()

	storeType := "unknown"
	if e.cfg.Store != nil {
		storeType = "store"
		if comp, ok := e.cfg.Store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}
	_, versioned := e.cfg.Store.(Committer)

	var last *RunReport
	if e.last != nil {
		r := *e.last
		last = &r
	}

	return EngineState{
		StoreType:   storeType,
		Versioned:   versioned,
		Recording:   e.cfg.Recorder != nil,
		SettleDelay: e.cfg.SettleDelay.String(),
		Runs:        e.runs,
		LastRun:     last,
	}
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
