package curve

import (
	"math"
	"testing"

	"github.com/decker502/spriter/pkg/geom"
)

const eps = 1e-6

func TestCurveApply(t *testing.T) {
	tests := []struct {
		name     string
		curve    Curve
		input    float64
		expected float64
	}{
		{"linear start", Linear, 0, 0},
		{"linear mid", Linear, 0.5, 0.5},
		{"linear clamps below", Linear, -0.5, 0},
		{"linear clamps above", Linear, 1.5, 1},
		{"linear nan", Linear, math.NaN(), 0},
		{"instant before end", Curve{Type: TypeInstant}, 0.99, 0},
		{"instant at end", Curve{Type: TypeInstant}, 1, 1},
		{"quadratic c1=0", Curve{Type: TypeQuadratic, C1: 0}, 0.5, 0.25},
		{"quadratic c1=0.5 is linear", Curve{Type: TypeQuadratic, C1: 0.5}, 0.3, 0.3},
		{"cubic s-curve mid", Curve{Type: TypeCubic, C1: 0, C2: 1}, 0.5, 0.5},
		{"cubic s-curve quarter", Curve{Type: TypeCubic, C1: 0, C2: 1}, 0.25, 0.15625},
		{"quartic end", Curve{Type: TypeQuartic, C1: 0.2, C2: 0.4, C3: 0.6}, 1, 1},
		{"quintic start", Curve{Type: TypeQuintic, C1: 0.2, C2: 0.4, C3: 0.6, C4: 0.8}, 0, 0},
		{"quintic evenly spaced is linear", Curve{Type: TypeQuintic, C1: 0.2, C2: 0.4, C3: 0.6, C4: 0.8}, 0.7, 0.7},
		{"bezier start", Curve{Type: TypeBezier, C1: 0.25, C2: 0.1, C3: 0.25, C4: 1}, 0, 0},
		{"bezier end", Curve{Type: TypeBezier, C1: 0.25, C2: 0.1, C3: 0.25, C4: 1}, 1, 1},
		{"bezier diagonal is linear", Curve{Type: TypeBezier, C1: 0.25, C2: 0.25, C3: 0.75, C4: 0.75}, 0.4, 0.4},
		{"ease linear", Curve{Type: TypeEase, Easing: "Linear"}, 0.3, 0.3},
		{"ease out quad", Curve{Type: TypeEase, Easing: "OutQuad"}, 0.5, 0.75},
		{"ease in out quad", Curve{Type: TypeEase, Easing: "InOutQuad"}, 0.5, 0.5},
		{"unknown easing falls back to linear", Curve{Type: TypeEase, Easing: "Nope"}, 0.6, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.curve.Apply(tt.input)
			if math.Abs(got-tt.expected) > 1e-4 {
				t.Errorf("Apply(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBezierMonotonic(t *testing.T) {
	c := Curve{Type: TypeBezier, C1: 0.42, C2: 0, C3: 0.58, C4: 1}
	prev := c.Apply(0)
	for i := 1; i <= 100; i++ {
		v := c.Apply(float64(i) / 100)
		if v < prev-eps {
			t.Fatalf("bezier not monotonic at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestInterpolateScalarAndVector(t *testing.T) {
	if got := Linear.Interpolate(10, 20, 0.25); math.Abs(got-12.5) > eps {
		t.Errorf("Interpolate = %v, want 12.5", got)
	}

	got := Linear.InterpolateVector(geom.Vec(0, 10), geom.Vec(10, -10), 0.5)
	if !got.ApproxEqual(geom.Vec(5, 0), eps) {
		t.Errorf("InterpolateVector = %v, want (5, 0)", got)
	}
}

func TestInterpolateAngle(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		t        float64
		spin     Spin
		expected float64
	}{
		{"none holds start", 10, 90, 0.5, SpinNone, 10},
		{"clockwise simple", 10, 90, 0.5, SpinClockwise, 50},
		{"clockwise wraps through 360", 350, 10, 0.5, SpinClockwise, 360},
		{"counter-clockwise wraps through 0", 10, 350, 0.5, SpinCounterClockwise, 0},
		{"counter-clockwise the long way", 10, 90, 0.5, SpinCounterClockwise, -130},
		{"clockwise end is unnormalized", 350, 10, 1, SpinClockwise, 370},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linear.InterpolateAngle(tt.a, tt.b, tt.t, tt.spin)
			if math.Abs(got-tt.expected) > eps {
				t.Errorf("InterpolateAngle(%v, %v, %v, %v) = %v, want %v",
					tt.a, tt.b, tt.t, tt.spin, got, tt.expected)
			}
		})
	}
}

func TestInterpolateAngleClockwiseIsMonotonic(t *testing.T) {
	prev := math.Inf(-1)
	for i := 0; i <= 20; i++ {
		v := Linear.InterpolateAngle(350, 10, float64(i)/20, SpinClockwise)
		if v < prev {
			t.Fatalf("angle decreased at step %d: %v < %v", i, v, prev)
		}
		prev = v
	}
	if math.Abs(prev-370) > eps {
		t.Errorf("final angle = %v, want 370", prev)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		expected Type
		wantErr  bool
	}{
		{"", TypeLinear, false},
		{"linear", TypeLinear, false},
		{"Instant", TypeInstant, false},
		{" cubic ", TypeCubic, false},
		{"bezier", TypeBezier, false},
		{"ease", TypeEase, false},
		{"wobbly", TypeLinear, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseType(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		370:  10,
		-10:  350,
		720:  0,
		-370: 350,
	}
	for in, want := range tests {
		if got := NormalizeAngle(in); math.Abs(got-want) > eps {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", in, got, want)
		}
	}
}
