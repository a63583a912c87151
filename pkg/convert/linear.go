package convert

import (
	"fmt"

	"github.com/aretw0/metron/pkg/domain"
	"github.com/aretw0/metron/pkg/registry"
)

// Linear converts value from one unit to another through reg's base unit.
// Converting a unit to itself returns value unchanged.
func Linear(value float64, from, to string, reg *registry.Registry) (float64, error) {
	if !reg.Domain().IsLinear() {
		return 0, fmt.Errorf("%w: %s", domain.ErrNotLinear, reg.Domain())
	}

	fromFactor, err := reg.Factor(from)
	if err != nil {
		return 0, err
	}
	toFactor, err := reg.Factor(to)
	if err != nil {
		return 0, err
	}

	if from == to {
		return value, nil
	}

	base := value * fromFactor
	return base / toFactor, nil
}
