package schema

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Registry maps model types to their definitions. It is built once and is
// safe for concurrent reads.
type Registry struct {
	defs  map[string]*DbDefinition
	order []string
}

// NewRegistry registers defs in order and checks that every relation and
// dependency resolves. All problems are returned together.
func NewRegistry(defs ...*DbDefinition) (*Registry, error) {
	r := &Registry{defs: make(map[string]*DbDefinition, len(defs))}
	var err error
	for _, def := range defs {
		if def == nil {
			err = multierr.Append(err, fmt.Errorf("nil definition"))
			continue
		}
		if _, exists := r.defs[def.ModelType]; exists {
			err = multierr.Append(err, fmt.Errorf("%s registered twice", def.ModelType))
			continue
		}
		r.defs[def.ModelType] = def
		r.order = append(r.order, def.ModelType)
	}
	for _, name := range r.order {
		err = multierr.Append(err, r.check(r.defs[name]))
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) check(def *DbDefinition) error {
	var err error
	for _, rel := range def.Relations {
		ref, ok := r.defs[rel.Ref]
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%s.%s joins unregistered type %s", def.ModelType, rel.ExtendedProperty, rel.Ref))
			continue
		}
		if _, ok := ref.Property(rel.RefProperty); !ok {
			err = multierr.Append(err, &ConfigError{Type: rel.Ref, Property: rel.RefProperty, Reason: "no such property"})
		}
	}
	if cr := def.CrossRelation; cr != nil {
		for _, side := range []string{cr.A, cr.B} {
			if _, ok := r.defs[side]; !ok {
				err = multierr.Append(err, fmt.Errorf("%s crosses unregistered type %s", def.ModelType, side))
			}
		}
	}
	for _, dep := range def.Dependencies {
		if _, ok := r.defs[dep]; !ok {
			err = multierr.Append(err, fmt.Errorf("%s depends on unregistered type %s", def.ModelType, dep))
		}
	}
	return err
}

func (r *Registry) Get(name string) (*DbDefinition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

func (r *Registry) MustGet(name string) *DbDefinition {
	def, ok := r.defs[name]
	if !ok {
		panic(fmt.Sprintf("schema: %s is not registered", name))
	}
	return def
}

// All returns definitions in registration order.
func (r *Registry) All() []*DbDefinition {
	out := make([]*DbDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// LogWarnings reports builder diagnostics such as extended type drift.
func (r *Registry) LogWarnings(log *zap.SugaredLogger) {
	for _, def := range r.All() {
		for _, w := range def.Warnings {
			log.Warnw("definition warning", "type", def.ModelType, "warning", w)
		}
	}
}

// Lookup returns the definition registered for T.
func Lookup[T Entity](r *Registry) (*DbDefinition, error) {
	name := TypeOf[T]().Name
	def, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("schema: %s is not registered", name)
	}
	return def, nil
}
