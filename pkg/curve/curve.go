// Package curve provides the interpolation math used to tween keyframes.
//
// A Curve reshapes a linear progress value t ∈ [0, 1] before it is applied to
// scalars, vectors and angles. The Spriter family (instant, linear, quadratic,
// cubic, quartic, quintic, bezier) is driven by the control parameters C1..C4
// stored in the asset; the Ease type maps to a named easing from gween.
//
// Reference: https://www.brashmonkey.com/ScmlDocs/ScmlReference.html
package curve

import (
	"fmt"
	"math"
	"strings"

	"github.com/decker502/spriter/pkg/geom"
	"github.com/tanema/gween/ease"
)

// Type selects the curve family.
type Type int

const (
	TypeLinear Type = iota
	TypeInstant
	TypeQuadratic
	TypeCubic
	TypeQuartic
	TypeQuintic
	TypeBezier
	TypeEase
)

var typeNames = map[Type]string{
	TypeLinear:    "linear",
	TypeInstant:   "instant",
	TypeQuadratic: "quadratic",
	TypeCubic:     "cubic",
	TypeQuartic:   "quartic",
	TypeQuintic:   "quintic",
	TypeBezier:    "bezier",
	TypeEase:      "ease",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType converts an asset curve name ("linear", "cubic", ...) to a Type.
// An empty name is linear, which is the SCML default.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return TypeLinear, nil
	}
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return TypeLinear, fmt.Errorf("unknown curve type %q", name)
}

// easings lists the gween functions reachable through TypeEase.
var easings = map[string]ease.TweenFunc{
	"Linear":       ease.Linear,
	"InQuad":       ease.InQuad,
	"OutQuad":      ease.OutQuad,
	"InOutQuad":    ease.InOutQuad,
	"InCubic":      ease.InCubic,
	"OutCubic":     ease.OutCubic,
	"InOutCubic":   ease.InOutCubic,
	"InQuart":      ease.InQuart,
	"OutQuart":     ease.OutQuart,
	"InOutQuart":   ease.InOutQuart,
	"InQuint":      ease.InQuint,
	"OutQuint":     ease.OutQuint,
	"InOutQuint":   ease.InOutQuint,
	"InSine":       ease.InSine,
	"OutSine":      ease.OutSine,
	"InOutSine":    ease.InOutSine,
	"InExpo":       ease.InExpo,
	"OutExpo":      ease.OutExpo,
	"InOutExpo":    ease.InOutExpo,
	"InCirc":       ease.InCirc,
	"OutCirc":      ease.OutCirc,
	"InOutCirc":    ease.InOutCirc,
	"InBack":       ease.InBack,
	"OutBack":      ease.OutBack,
	"InOutBack":    ease.InOutBack,
	"InBounce":     ease.InBounce,
	"OutBounce":    ease.OutBounce,
	"InOutBounce":  ease.InOutBounce,
	"InElastic":    ease.InElastic,
	"OutElastic":   ease.OutElastic,
	"InOutElastic": ease.InOutElastic,
}

// HasEasing reports whether name is a known TypeEase function.
func HasEasing(name string) bool {
	_, ok := easings[name]
	return ok
}

// Curve is a curve family plus its control parameters.
// The zero value is a linear curve.
type Curve struct {
	Type Type

	// C1..C4 are the SCML control parameters. Quadratic uses C1, cubic C1..C2,
	// quartic C1..C3, quintic and bezier C1..C4 (bezier reads them as x1, y1, x2, y2).
	C1, C2, C3, C4 float64

	// Easing names the gween function used when Type is TypeEase.
	Easing string
}

// Linear is the default curve.
var Linear = Curve{Type: TypeLinear}

// Apply reshapes t. The input is clamped to [0, 1].
func (c Curve) Apply(t float64) float64 {
	t = clampUnit(t)

	switch c.Type {
	case TypeInstant:
		if t >= 1 {
			return 1
		}
		return 0
	case TypeQuadratic:
		return quadratic(0, c.C1, 1, t)
	case TypeCubic:
		return cubic(0, c.C1, c.C2, 1, t)
	case TypeQuartic:
		return quartic(0, c.C1, c.C2, c.C3, 1, t)
	case TypeQuintic:
		return quintic(0, c.C1, c.C2, c.C3, c.C4, 1, t)
	case TypeBezier:
		return bezier(c.C1, c.C2, c.C3, c.C4, t)
	case TypeEase:
		fn, ok := easings[c.Easing]
		if !ok {
			return t
		}
		return float64(fn(float32(t), 0, 1, 1))
	default:
		return t
	}
}

// Interpolate blends a towards b by the reshaped t.
func (c Curve) Interpolate(a, b, t float64) float64 {
	return lerp(a, b, c.Apply(t))
}

// InterpolateVector blends both components of a towards b.
func (c Curve) InterpolateVector(a, b geom.Vector2, t float64) geom.Vector2 {
	r := c.Apply(t)
	return geom.Vector2{X: lerp(a.X, b.X, r), Y: lerp(a.Y, b.Y, r)}
}

// InterpolateAngle blends angle a towards b in the direction given by spin.
// SpinNone holds a. The result is not normalized, so successive frames keep
// turning the same way instead of snapping across the 0/360 seam.
func (c Curve) InterpolateAngle(a, b, t float64, spin Spin) float64 {
	switch {
	case spin > 0:
		if b-a < 0 {
			b += 360
		}
	case spin < 0:
		if b-a > 0 {
			b -= 360
		}
	default:
		return a
	}
	return lerp(a, b, c.Apply(t))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func quadratic(a, b, c, t float64) float64 {
	return lerp(lerp(a, b, t), lerp(b, c, t), t)
}

func cubic(a, b, c, d, t float64) float64 {
	return lerp(quadratic(a, b, c, t), quadratic(b, c, d, t), t)
}

func quartic(a, b, c, d, e, t float64) float64 {
	return lerp(cubic(a, b, c, d, t), cubic(b, c, d, e, t), t)
}

func quintic(a, b, c, d, e, f, t float64) float64 {
	return lerp(quartic(a, b, c, d, e, t), quartic(b, c, d, e, f, t), t)
}

// bezier evaluates a CSS-style cubic bezier through (0,0), (x1,y1), (x2,y2), (1,1)
// by solving x(u) = t for u, then returning y(u).
func bezier(x1, y1, x2, y2, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	u := t
	for n := 0; n < 8; n++ {
		x := sampleBezier(x1, x2, u) - t
		if math.Abs(x) < 1e-7 {
			return sampleBezier(y1, y2, clampUnit(u))
		}
		dx := sampleBezierDerivative(x1, x2, u)
		if math.Abs(dx) < 1e-7 {
			break
		}
		u -= x / dx
	}

	// Newton did not converge; bisection always does.
	lo, hi := 0.0, 1.0
	u = clampUnit(u)
	for n := 0; n < 20; n++ {
		x := sampleBezier(x1, x2, u) - t
		if math.Abs(x) < 1e-7 {
			break
		}
		if x > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) / 2
	}
	return sampleBezier(y1, y2, u)
}

func sampleBezier(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleBezierDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(t float64) float64 {
	// NaN falls through to 0.
	if !(t > 0) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
