package operations

import "fmt"

// Registry holds the steps of a run in execution order.
// Steps are registered before Run and not modified afterwards.
type Registry struct {
	steps []Step
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends step. IDs must be non-empty and unique.
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil step")
	}
	id := step.ID()
	if id == "" {
		return fmt.Errorf("step ID cannot be empty")
	}
	for _, s := range r.steps {
		if s.ID() == id {
			return fmt.Errorf("step with ID %s already registered", id)
		}
	}
	r.steps = append(r.steps, step)
	return nil
}

// List returns the steps in execution order
func (r *Registry) List() []Step {
	return append([]Step(nil), r.steps...)
}

// ListIDs returns the step IDs in execution order
func (r *Registry) ListIDs() []string {
	ids := make([]string, len(r.steps))
	for i, s := range r.steps {
		ids[i] = s.ID()
	}
	return ids
}

// Count returns the number of registered steps
func (r *Registry) Count() int {
	return len(r.steps)
}
