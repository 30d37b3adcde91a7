// Package airfoil defines parametric airfoil identities and generates
// their raw surface coordinates from the closed-form NACA equations.
package airfoil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidParameter means a shape parameter is outside its physically
// valid range. Fatal: no solver session is ever run for such a definition.
var ErrInvalidParameter = errors.New("invalid airfoil parameter")

// Family tags which generating equations apply.
type Family int

const (
	Family4Digit Family = iota
	Family5Digit
	Family6Series
)

func (f Family) String() string {
	switch f {
	case Family4Digit:
		return "4-digit"
	case Family5Digit:
		return "5-digit"
	case Family6Series:
		return "6-series"
	default:
		return "unknown"
	}
}

// maxThickness is the sanity ceiling for thickness-to-chord ratio. The
// thickness polynomial is meaningless far beyond real sections.
const maxThickness = 0.40

// Definition identifies one airfoil. Value object, immutable once parsed.
type Definition struct {
	Name      string
	Code      string
	Family    Family
	Camber    float64 // max camber, fraction of chord (4-digit)
	CamberPos float64 // position of max camber, fraction of chord (4-digit)
	Thickness float64 // max thickness, fraction of chord
}

// ParseCode builds a Definition from a NACA digit string such as "2412"
// or "23012". Codes found in the 6-series catalog (e.g. "63012a") resolve
// to Family6Series with catalog coordinates.
func ParseCode(code string) (Definition, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	code = strings.TrimSpace(strings.TrimPrefix(code, "naca"))
	if _, ok := catalog[code]; ok {
		return Definition{
			Name:   "NACA " + strings.ToUpper(code),
			Code:   code,
			Family: Family6Series,
		}, nil
	}
	switch len(code) {
	case 4:
		m, err1 := strconv.Atoi(code[:1])
		p, err2 := strconv.Atoi(code[1:2])
		t, err3 := strconv.Atoi(code[2:])
		if err1 != nil || err2 != nil || err3 != nil {
			return Definition{}, fmt.Errorf("airfoil: code %q: %w", code, ErrInvalidParameter)
		}
		def := Definition{
			Name:      "NACA " + code,
			Code:      code,
			Family:    Family4Digit,
			Camber:    float64(m) / 100,
			CamberPos: float64(p) / 10,
			Thickness: float64(t) / 100,
		}
		return def, def.validate()
	case 5:
		t, err := strconv.Atoi(code[3:])
		if err != nil {
			return Definition{}, fmt.Errorf("airfoil: code %q: %w", code, ErrInvalidParameter)
		}
		if code[:3] != "230" {
			return Definition{}, fmt.Errorf("airfoil: unsupported 5-digit mean line %q: %w", code[:3], ErrInvalidParameter)
		}
		def := Definition{
			Name:      "NACA " + code,
			Code:      code,
			Family:    Family5Digit,
			Thickness: float64(t) / 100,
		}
		return def, def.validate()
	default:
		return Definition{}, fmt.Errorf("airfoil: code %q: %w", code, ErrInvalidParameter)
	}
}

func (d Definition) validate() error {
	if d.Thickness <= 0 || d.Thickness > maxThickness {
		return fmt.Errorf("airfoil: thickness %.3f outside (0, %.2f]: %w", d.Thickness, maxThickness, ErrInvalidParameter)
	}
	if d.Camber > 0 && (d.CamberPos <= 0 || d.CamberPos >= 1) {
		return fmt.Errorf("airfoil: camber position %.2f outside (0,1): %w", d.CamberPos, ErrInvalidParameter)
	}
	return nil
}

// Validate re-checks the shape parameters. Definitions built by hand
// rather than ParseCode go through this before generation.
func (d Definition) Validate() error {
	if d.Family == Family6Series {
		if _, ok := catalog[d.Code]; !ok {
			return fmt.Errorf("airfoil: no catalog entry for %q: %w", d.Code, ErrInvalidParameter)
		}
		return nil
	}
	return d.validate()
}
