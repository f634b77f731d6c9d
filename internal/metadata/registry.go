package metadata

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Registry is an in-memory Provider. Types are indexed by every dotted suffix
// of their full name, so "Game.Data.Item" resolves as "Item", "Data.Item" and
// "Game.Data.Item". On ambiguous suffixes the first added type wins.
type Registry struct {
	types []*TypeDescriptor
	index map[string]*TypeDescriptor
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]*TypeDescriptor)}
}

// Add registers a type. It is not safe to call Add concurrently with Resolve.
func (r *Registry) Add(d *TypeDescriptor) {
	r.types = append(r.types, d)
	full := d.FullName()
	for {
		if _, ok := r.index[full]; !ok {
			r.index[full] = d
		}
		i := strings.IndexByte(full, '.')
		if i < 0 {
			break
		}
		full = full[i+1:]
	}
}

func (r *Registry) Resolve(name string) (*TypeDescriptor, error) {
	if d, ok := r.index[strings.TrimPrefix(name, "global::")]; ok {
		return d, nil
	}
	return nil, errors.Wrapf(ErrTypeNotFound, "%s", name)
}

// Types returns all registered types in insertion order.
func (r *Registry) Types() []*TypeDescriptor {
	return r.types
}

func (r *Registry) Len() int { return len(r.types) }
