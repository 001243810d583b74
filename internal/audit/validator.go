package audit

import (
	"fmt"

	"github.com/contaudit/contaudit/internal/domain"
)

// ─── Validator Interface ────────────────────────────────────────────────────

// Validator is one audit module: a pure function over the snapshot.
// Implementations must not mutate the snapshot, must not depend on other
// validators, and must emit findings in a stable order for a given snapshot.
type Validator interface {
	// Name is the module name used for selective execution.
	Name() string

	// Validate inspects the snapshot and returns zero or more findings.
	Validate(snap *Snapshot) []domain.Finding
}

// ─── Registry ───────────────────────────────────────────────────────────────

// Registry holds validators keyed by module name, preserving registration
// order so merged report output is deterministic.
type Registry struct {
	order  []string
	byName map[string]Validator
}

// NewRegistry creates an empty validator registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Validator)}
}

// Register adds a validator. Duplicate module names are rejected.
func (r *Registry) Register(v Validator) error {
	name := v.Name()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("validator %q already registered", name)
	}
	r.byName[name] = v
	r.order = append(r.order, name)
	return nil
}

// Get returns the validator for a module name, or nil.
func (r *Registry) Get(name string) Validator {
	return r.byName[name]
}

// Names returns all registered module names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
