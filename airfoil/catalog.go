package airfoil

import "github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/geometry"

// Closed-form equations do not cover the 6-series laminar-flow sections,
// so those ship as fixed coordinate sets. The 63-012A entry is a cleaned
// trace with a closed trailing edge and a smooth leading edge.
var catalog = map[string][]geometry.Point{
	"63012a": naca63012A,
}

// CatalogCodes lists the codes available as fixed coordinate sets.
func CatalogCodes() []string {
	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	return codes
}

var naca63012A = []geometry.Point{
	{X: 1.000000, Y: 0.000000},
	{X: 0.997200, Y: 0.000200},
	{X: 0.985000, Y: 0.001800},
	{X: 0.970000, Y: 0.004500},
	{X: 0.950000, Y: 0.007200},
	{X: 0.900000, Y: 0.014400},
	{X: 0.800000, Y: 0.028400},
	{X: 0.700000, Y: 0.041500},
	{X: 0.600000, Y: 0.052500},
	{X: 0.500000, Y: 0.060000},
	{X: 0.400000, Y: 0.063000},
	{X: 0.350000, Y: 0.062000},
	{X: 0.300000, Y: 0.059600},
	{X: 0.250000, Y: 0.055600},
	{X: 0.200000, Y: 0.050400},
	{X: 0.150000, Y: 0.043700},
	{X: 0.100000, Y: 0.035200},
	{X: 0.075000, Y: 0.030100},
	{X: 0.050000, Y: 0.024200},
	{X: 0.025000, Y: 0.016700},
	{X: 0.012500, Y: 0.011600},
	{X: 0.005000, Y: 0.007200},
	{X: 0.001000, Y: 0.003000},
	{X: 0.000000, Y: 0.000000},
	{X: 0.001000, Y: -0.003000},
	{X: 0.005000, Y: -0.007200},
	{X: 0.012500, Y: -0.011600},
	{X: 0.025000, Y: -0.016700},
	{X: 0.050000, Y: -0.024200},
	{X: 0.075000, Y: -0.030100},
	{X: 0.100000, Y: -0.035200},
	{X: 0.150000, Y: -0.043700},
	{X: 0.200000, Y: -0.050400},
	{X: 0.250000, Y: -0.055600},
	{X: 0.300000, Y: -0.059600},
	{X: 0.350000, Y: -0.062000},
	{X: 0.400000, Y: -0.063000},
	{X: 0.500000, Y: -0.060000},
	{X: 0.600000, Y: -0.052500},
	{X: 0.700000, Y: -0.041500},
	{X: 0.800000, Y: -0.028400},
	{X: 0.900000, Y: -0.014400},
	{X: 0.950000, Y: -0.007200},
	{X: 0.985000, Y: -0.001800},
	{X: 1.000000, Y: 0.000000},
}
