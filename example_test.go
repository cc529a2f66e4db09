package keyshape_test

import (
	"fmt"

	"github.com/aretw0/keyshape"
)

func ExampleValidate() {
	s := keyshape.Schema{
		"name":    keyshape.String,
		"port":    keyshape.InRange(1, 65535),
		"level":   keyshape.Enum{"debug", "info", "warn"},
		"retries": keyshape.Opt(keyshape.Int),
	}

	err := keyshape.Validate(map[string]any{
		"name":  "api",
		"port":  8080,
		"level": "verbose",
	}, s)

	fmt.Println(err)
	// Output: level is not an element of ["debug", "info", "warn"]
}

func ExampleValidator_Check() {
	v := keyshape.New(keyshape.WithFull())
	s := keyshape.Schema{
		"host": keyshape.String,
		"port": keyshape.Int,
	}

	ok, violations := v.Check(map[string]any{"port": "8080"}, s)
	fmt.Println(ok)
	for _, violation := range violations {
		fmt.Println(violation)
	}
	// Output:
	// false
	// host is not present
	// port is not an integer
}
