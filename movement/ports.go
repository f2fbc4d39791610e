package movement

import "github.com/jakecoffman/cp"

// Signal identifies one animation output. Values are stable and set once
// per tick.
type Signal int

const (
	SignalSpeed Signal = iota
	SignalBall
	SignalBrake
	SignalHit
	SignalLookUp
	SignalLookDown
	SignalGrounded
	SignalSpring
	SignalUnderwater
	signalCount
)

var signalNames = [signalCount]string{
	SignalSpeed:      "speed",
	SignalBall:       "ball",
	SignalBrake:      "brake",
	SignalHit:        "hit",
	SignalLookUp:     "look_up",
	SignalLookDown:   "look_down",
	SignalGrounded:   "grounded",
	SignalSpring:     "spring",
	SignalUnderwater: "underwater",
}

func (s Signal) String() string {
	if s < 0 || s >= signalCount {
		return "unknown"
	}
	return signalNames[s]
}

// Signals returns every output signal in identifier order.
func Signals() []Signal {
	out := make([]Signal, signalCount)
	for i := range out {
		out[i] = Signal(i)
	}
	return out
}

// AnimationSink receives animation outputs. Booleans are sent as 0 or 1.
type AnimationSink interface {
	SetSignal(s Signal, value float64)
}

// PlatformNotifier is told once per tick which moving surface the
// character is standing on.
type PlatformNotifier interface {
	NotifyGroundedOn(handle any)
}

// RingScatterer spawns the rings lost on a damaging hit.
type RingScatterer interface {
	Scatter(count int, origin cp.Vector, facing float64)
}

// AnimationFrame is an AnimationSink that keeps the latest value of every
// signal.
type AnimationFrame [signalCount]float64

func (f *AnimationFrame) SetSignal(s Signal, value float64) {
	if f == nil || s < 0 || s >= signalCount {
		return
	}
	f[s] = value
}

func (f *AnimationFrame) Get(s Signal) float64 {
	if f == nil || s < 0 || s >= signalCount {
		return 0
	}
	return f[s]
}

func (f *AnimationFrame) Bool(s Signal) bool {
	return f.Get(s) != 0
}

func boolSignal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
