package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/metron/pkg/domain"
)

// Catalog maps every domain to its registry.
type Catalog struct {
	registries map[domain.Domain]*Registry
}

// NewCatalog assembles a catalog. A later registry for the same domain replaces an earlier one.
func NewCatalog(regs ...*Registry) *Catalog {
	c := &Catalog{registries: make(map[domain.Domain]*Registry, len(regs))}
	for _, r := range regs {
		c.registries[r.Domain()] = r
	}
	return c
}

// Registry returns the registry for d.
func (c *Catalog) Registry(d domain.Domain) (*Registry, error) {
	r, ok := c.registries[d]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDomain, d)
	}
	return r, nil
}

// Domains lists the domains present in the catalog, in presentation order.
func (c *Catalog) Domains() []domain.Domain {
	var out []domain.Domain
	for _, d := range domain.AllDomains() {
		if _, ok := c.registries[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	return NewCatalog(
		LengthUnits(),
		WeightUnits(),
		TemperatureUnits(),
		VolumeUnits(),
		TimeUnits(),
		SpeedUnits(),
		CurrentUnits(),
		CurrencyUnits(),
	)
})

// Default returns the shared catalog of built-in units.
func Default() *Catalog {
	return defaultCatalog()
}
