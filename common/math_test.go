package common

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"full_turn", TwoPi, 0},
		{"negative", -math.Pi / 2, 3 * math.Pi / 2},
		{"over", 5 * math.Pi, math.Pi},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := NormalizeAngle(c.in)
			assert.InDelta(t, c.want, got, 1e-9)
			assert.True(t, got >= 0 && got < TwoPi)
		})
	}
}

func TestNormalAngleRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		normal cp.Vector
		deg    float64
	}{
		{"floor", cp.Vector{X: 0, Y: 1}, 0},
		{"right_wall", cp.Vector{X: -1, Y: 0}, 90},
		{"ceiling", cp.Vector{X: 0, Y: -1}, 180},
		{"left_wall", cp.Vector{X: 1, Y: 0}, 270},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := NormalToAngle(c.normal)
			assert.InDelta(t, c.deg, a*Rad2Deg, 1e-9)
			n := AngleToNormal(a)
			assert.InDelta(t, c.normal.X, n.X, 1e-9)
			assert.InDelta(t, c.normal.Y, n.Y, 1e-9)
		})
	}
}

func TestSnapAngle(t *testing.T) {
	assert.Equal(t, 0.0, SnapAngle(10))
	assert.Equal(t, 45.0, SnapAngle(30))
	assert.Equal(t, 0.0, SnapAngle(350))
	assert.Equal(t, 270.0, SnapAngle(280))
}

func TestMoveTowards(t *testing.T) {
	from := cp.Vector{}
	to := cp.Vector{X: 10}
	got := MoveTowards(from, to, 4)
	assert.InDelta(t, 4, got.X, 1e-9)
	assert.Equal(t, to, MoveTowards(got, to, 100))
}
