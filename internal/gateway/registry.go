package gateway

import (
	"context"
	"fmt"
)

// HandlerFunc executes one operation against validated input and returns a
// JSON-serializable result.
type HandlerFunc func(ctx context.Context, in Input) (interface{}, error)

// Operation is one registered gateway entrypoint.
type Operation struct {
	Key         string
	Description string
	Method      string
	Path        string
	Price       int64 // minor currency units; 0 = free
	Schema      Schema
	Handler     HandlerFunc
}

// Priced reports whether calling this operation costs anything.
func (op Operation) Priced() bool {
	return op.Price > 0
}

// Registry holds the gateway's operations in registration order.
type Registry struct {
	ops  []Operation
	keys map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{keys: make(map[string]bool)}
}

// Register adds an operation. Keys must be unique.
func (r *Registry) Register(op Operation) error {
	if op.Key == "" {
		return fmt.Errorf("operation key is required")
	}
	if r.keys[op.Key] {
		return fmt.Errorf("operation %s already registered", op.Key)
	}
	if op.Handler == nil {
		return fmt.Errorf("operation %s has no handler", op.Key)
	}

	r.keys[op.Key] = true
	r.ops = append(r.ops, op)
	return nil
}

// MustRegister registers op and panics on error. Registration happens at
// startup, where a bad operation is a programming error.
func (r *Registry) MustRegister(op Operation) {
	if err := r.Register(op); err != nil {
		panic(err)
	}
}

// Operations returns all operations in registration order.
func (r *Registry) Operations() []Operation {
	return r.ops
}
