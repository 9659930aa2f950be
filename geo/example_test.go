package geo_test

import (
	"fmt"

	"github.com/sitegui/ptolemy/geo"
)

func ExamplePoint_HaversineDistance() {
	a := geo.PointFromDegrees(0, 0)
	b := geo.PointFromDegrees(0, 1)
	fmt.Printf("%.1f km\n", a.HaversineDistance(b)/1000)
	// Output: 111.2 km
}

func ExampleAngleFromDegrees() {
	a := geo.AngleFromDegrees(42.552221)
	fmt.Println(a.MicroDegrees())
	// Output: 42552221
}
