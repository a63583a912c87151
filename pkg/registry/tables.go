package registry

import "github.com/aretw0/metron/pkg/domain"

func linear(name string, factor float64) domain.Unit {
	return domain.Unit{Name: name, Factor: factor}
}

func money(code, display string) domain.Unit {
	return domain.Unit{Name: code, Code: code, DisplayName: display}
}

// LengthUnits is relative to the meter.
func LengthUnits() *Registry {
	return New(domain.Length,
		linear("Meters", 1),
		linear("Kilometers", 1000),
		linear("Centimeters", 0.01),
		linear("Millimeters", 0.001),
		linear("Miles", 1609.34),
		linear("Yards", 0.9144),
		linear("Feet", 0.3048),
		linear("Inches", 0.0254),
		linear("Light Years", 9.461e15),
	)
}

// WeightUnits is relative to the kilogram.
func WeightUnits() *Registry {
	return New(domain.Weight,
		linear("Kilograms", 1),
		linear("Grams", 0.001),
		linear("Pounds", 0.453592),
		linear("Ounces", 0.0283495),
	)
}

// TemperatureUnits carries no factors; see convert.Temperature.
func TemperatureUnits() *Registry {
	return New(domain.Temperature,
		domain.Unit{Name: "Celsius"},
		domain.Unit{Name: "Fahrenheit"},
		domain.Unit{Name: "Kelvin"},
	)
}

// VolumeUnits is relative to the liter.
func VolumeUnits() *Registry {
	return New(domain.Volume,
		linear("Liters", 1),
		linear("Milliliters", 0.001),
		linear("Cubic Meters", 1000),
		linear("Gallons", 3.78541),
		linear("Fluid Ounces", 0.0295735),
		linear("Cups", 0.236588),
	)
}

// TimeUnits is relative to the second. Months average 30.42 days, years have 365.
func TimeUnits() *Registry {
	return New(domain.Time,
		linear("Seconds", 1),
		linear("Minutes", 60),
		linear("Hours", 3600),
		linear("Days", 86400),
		linear("Weeks", 604800),
		linear("Months", 2628000),
		linear("Years", 31536000),
	)
}

// SpeedUnits is relative to meters per second.
func SpeedUnits() *Registry {
	return New(domain.Speed,
		linear("Meters per Second", 1),
		linear("Kilometers per Hour", 0.277778),
		linear("Miles per Hour", 0.44704),
		linear("Knots", 0.514444),
	)
}

// CurrentUnits is relative to the ampere.
func CurrentUnits() *Registry {
	return New(domain.Current,
		linear("Amperes", 1),
		linear("Milliamperes", 0.001),
		linear("Microamperes", 0.000001),
		linear("Kiloamperes", 1000),
	)
}

// CurrencyUnits lists the supported currency codes. Rates are never stored here.
func CurrencyUnits() *Registry {
	return New(domain.Currency,
		money("USD", "US Dollar"),
		money("EUR", "Euro"),
		money("GBP", "British Pound"),
		money("INR", "Indian Rupee"),
		money("PKR", "Pakistani Rupee"),
		money("CNY", "Chinese Yuan"),
		money("IRR", "Iranian Rial"),
		money("AFN", "Afghan Afghani"),
		money("BDT", "Bangladeshi Taka"),
		money("LKR", "Sri Lankan Rupee"),
		money("NPR", "Nepalese Rupee"),
		money("MVR", "Maldivian Rufiyaa"),
		money("JPY", "Japanese Yen"),
		money("KRW", "South Korean Won"),
		money("SGD", "Singapore Dollar"),
		money("MYR", "Malaysian Ringgit"),
		money("IDR", "Indonesian Rupiah"),
		money("THB", "Thai Baht"),
		money("VND", "Vietnamese Dong"),
	)
}
