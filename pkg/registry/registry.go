package registry

import (
	"fmt"

	"github.com/aretw0/metron/pkg/domain"
)

// Registry is the immutable table of units for one domain.
// It is built once and never mutated, so it is safe to share across goroutines.
type Registry struct {
	domain domain.Domain
	units  []domain.Unit
	index  map[string]int
}

// New builds a registry for d. Units keep their definition order.
// It panics on duplicate names or non-positive factors in a linear domain:
// registries are static tables and such an entry is a programming error.
func New(d domain.Domain, units ...domain.Unit) *Registry {
	r := &Registry{
		domain: d,
		units:  make([]domain.Unit, 0, len(units)),
		index:  make(map[string]int, len(units)),
	}
	for _, u := range units {
		if _, dup := r.index[u.Name]; dup {
			panic(fmt.Sprintf("registry %s: duplicate unit %q", d, u.Name))
		}
		if d.IsLinear() && !(u.Factor > 0) {
			panic(fmt.Sprintf("registry %s: unit %q has non-positive factor %v", d, u.Name, u.Factor))
		}
		u.Domain = d
		r.index[u.Name] = len(r.units)
		r.units = append(r.units, u)
	}
	return r
}

// Domain returns the domain this registry belongs to.
func (r *Registry) Domain() domain.Domain {
	return r.domain
}

// Lookup returns the unit registered under name.
// Returns a *domain.UnknownUnitError if it does not exist.
func (r *Registry) Lookup(name string) (domain.Unit, error) {
	i, ok := r.index[name]
	if !ok {
		return domain.Unit{}, &domain.UnknownUnitError{Domain: r.domain, Unit: name}
	}
	return r.units[i], nil
}

// Factor returns how many base units one unit of name equals.
func (r *Registry) Factor(name string) (float64, error) {
	u, err := r.Lookup(name)
	if err != nil {
		return 0, err
	}
	return u.Factor, nil
}

// Units returns a copy of the units in definition order.
func (r *Registry) Units() []domain.Unit {
	out := make([]domain.Unit, len(r.units))
	copy(out, r.units)
	return out
}

// Names returns the unit names in definition order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.units))
	for i, u := range r.units {
		out[i] = u.Name
	}
	return out
}

// Len returns the number of units.
func (r *Registry) Len() int {
	return len(r.units)
}
