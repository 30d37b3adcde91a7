package airfoil

import (
	"fmt"
	"math"

	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/geometry"
)

// Constants of the "230" mean line (design CL 0.3).
// Ref: Theory of Wing Sections, Abbott & Von Doenhoff.
const (
	meanLine230M  = 0.2025
	meanLine230P  = 0.15
	meanLine230K1 = 15.957
)

// Generate produces the raw surface for def with roughly n points per
// surface. Upper and lower surfaces are built separately in the local
// camber-normal direction and concatenated trailing edge -> leading edge
// -> trailing edge, leading-edge point shared.
func Generate(def Definition, n int) (geometry.Raw, error) {
	if err := def.Validate(); err != nil {
		return geometry.Raw{}, err
	}
	if def.Family == Family6Series {
		return fromCatalog(def)
	}
	if n < 8 {
		n = 8
	}

	x := cosineSpacing(n)
	upper := make([]geometry.Point, len(x))
	lower := make([]geometry.Point, len(x))
	for i, xi := range x {
		yt := thickness(xi, def.Thickness)
		var yc, dyc float64
		switch def.Family {
		case Family5Digit:
			yc, dyc = camber5(xi)
		default:
			yc, dyc = camber4(xi, def.Camber, def.CamberPos)
		}
		theta := math.Atan(dyc)
		upper[i] = geometry.Point{X: xi - yt*math.Sin(theta), Y: yc + yt*math.Cos(theta)}
		lower[i] = geometry.Point{X: xi + yt*math.Sin(theta), Y: yc - yt*math.Cos(theta)}
	}

	pts := make([]geometry.Point, 0, 2*len(x)-1)
	for i := len(upper) - 1; i >= 0; i-- {
		pts = append(pts, upper[i])
	}
	pts = append(pts, lower[1:]...)

	return geometry.Raw{Name: def.Name, Points: pts}, nil
}

// cosineSpacing returns n/2+1 abscissae on [0,1] clustered at both ends:
// x = 0.5*(1 - cos(beta)), beta in [0, pi].
func cosineSpacing(n int) []float64 {
	m := n/2 + 1
	x := make([]float64, m)
	for i := 0; i < m; i++ {
		beta := math.Pi * float64(i) / float64(m-1)
		x[i] = 0.5 * (1 - math.Cos(beta))
	}
	return x
}

// thickness is the standard NACA thickness distribution for
// thickness-to-chord ratio t.
func thickness(x, t float64) float64 {
	return 5 * t * (0.2969*math.Sqrt(x) - 0.1260*x - 0.3516*x*x +
		0.2843*x*x*x - 0.1015*x*x*x*x)
}

// camber4 evaluates the 4-digit camber line and its slope at x.
func camber4(x, m, p float64) (yc, dyc float64) {
	if m == 0 {
		return 0, 0
	}
	if x < p {
		yc = (m / (p * p)) * (2*p*x - x*x)
		dyc = (2 * m / (p * p)) * (p - x)
		return yc, dyc
	}
	q := 1 - p
	yc = (m / (q * q)) * ((1 - 2*p) + 2*p*x - x*x)
	dyc = (2 * m / (q * q)) * (p - x)
	return yc, dyc
}

// camber5 evaluates the 5-digit "230" mean line and its slope at x.
func camber5(x float64) (yc, dyc float64) {
	m, k1 := meanLine230M, meanLine230K1
	if x < meanLine230P {
		yc = (k1 / 6) * (x*x*x - 3*m*x*x + m*m*(3-m)*x)
		dyc = (k1 / 6) * (3*x*x - 6*m*x + m*m*(3-m))
		return yc, dyc
	}
	yc = (k1 * m * m * m / 6) * (1 - x)
	dyc = -(k1 * m * m * m / 6)
	return yc, dyc
}

func fromCatalog(def Definition) (geometry.Raw, error) {
	entry, ok := catalog[def.Code]
	if !ok {
		return geometry.Raw{}, fmt.Errorf("airfoil: no catalog entry for %q: %w", def.Code, ErrInvalidParameter)
	}
	pts := make([]geometry.Point, len(entry))
	copy(pts, entry)
	return geometry.Raw{Name: def.Name, Points: pts}, nil
}
