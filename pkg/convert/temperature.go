package convert

import "github.com/aretw0/metron/pkg/domain"

// Temperature unit names.
const (
	Celsius    = "Celsius"
	Fahrenheit = "Fahrenheit"
	Kelvin     = "Kelvin"
)

// Temperature converts between Celsius, Fahrenheit and Kelvin via Celsius.
// Values below absolute zero are not rejected.
func Temperature(value float64, from, to string) (float64, error) {
	if err := checkTemperatureUnit(from); err != nil {
		return 0, err
	}
	if err := checkTemperatureUnit(to); err != nil {
		return 0, err
	}
	if from == to {
		return value, nil
	}

	var celsius float64
	switch from {
	case Fahrenheit:
		celsius = (value - 32) * 5 / 9
	case Kelvin:
		celsius = value - 273.15
	default:
		celsius = value
	}

	switch to {
	case Fahrenheit:
		return celsius*9/5 + 32, nil
	case Kelvin:
		return celsius + 273.15, nil
	default:
		return celsius, nil
	}
}

func checkTemperatureUnit(name string) error {
	switch name {
	case Celsius, Fahrenheit, Kelvin:
		return nil
	}
	return &domain.UnknownUnitError{Domain: domain.Temperature, Unit: name}
}
