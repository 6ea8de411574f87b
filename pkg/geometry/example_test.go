package geometry_test

import (
	"fmt"

	"github.com/matzehuels/drainline/pkg/geometry"
)

func ExampleToProjected() {
	px, py := geometry.ToProjected(10, 4)
	fmt.Println(px, py)

	x, y := geometry.FromProjected(px, py)
	fmt.Println(x, y)
	// Output:
	// 6 7
	// 10 4
}

func ExampleTranslate() {
	// A drag of two units to the right on screen moves the outlet
	// one metre along x and one metre back along y.
	x, y := geometry.Translate(0, 0, 2, 0)
	fmt.Println(x, y)
	// Output:
	// 1 -1
}
