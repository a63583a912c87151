package metron_test

import (
	"context"
	"fmt"

	"github.com/aretw0/metron"
	"github.com/aretw0/metron/pkg/domain"
)

func ExampleConverter_Convert() {
	conv := metron.New()
	ctx := context.Background()

	res, err := conv.Convert(ctx, domain.Length, 1, "Kilometers", "Meters")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res)

	res, _ = conv.Convert(ctx, domain.Temperature, 100, "Celsius", "Fahrenheit")
	fmt.Println(res)

	// Output:
	// 1 Kilometers = 1000.0000 Meters
	// 100 Celsius = 212.00 Fahrenheit
}
