package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/milk9111/spinrunner/movement"
)

// TickRecord is one row of the per-tick trace.
type TickRecord struct {
	Tick        int     `csv:"tick"`
	Time        float64 `csv:"time"`
	X           float64 `csv:"x"`
	Y           float64 `csv:"y"`
	VX          float64 `csv:"vx"`
	VY          float64 `csv:"vy"`
	GroundSpeed float64 `csv:"ground_speed"`
	Angle       float64 `csv:"angle_deg"`
	RenderAngle float64 `csv:"render_angle"`
	Mode        string  `csv:"mode"`
	Phase       string  `csv:"phase"`
	Grounded    bool    `csv:"grounded"`
	Rolling     bool    `csv:"rolling"`
	Underwater  bool    `csv:"underwater"`
	Rings       int     `csv:"rings"`
	Layer       uint    `csv:"layer"`
	InputX      float64 `csv:"input_x"`
	InputY      float64 `csv:"input_y"`
	Jump        bool    `csv:"jump"`
}

// Record snapshots c after tick.
func Record(tick int, t float64, c *movement.Character, in movement.Input) TickRecord {
	pos := c.Position()
	vel := c.Velocity()
	return TickRecord{
		Tick:        tick,
		Time:        t,
		X:           pos.X,
		Y:           pos.Y,
		VX:          vel.X,
		VY:          vel.Y,
		GroundSpeed: c.GroundSpeed(),
		Angle:       c.Contact().AngleDeg(),
		RenderAngle: c.SnappedRenderAngle(),
		Mode:        c.Mode().String(),
		Phase:       string(c.Phase()),
		Grounded:    c.Grounded(),
		Rolling:     c.Rolling(),
		Underwater:  c.Underwater(),
		Rings:       c.Rings(),
		Layer:       c.CollisionLayer(),
		InputX:      in.Move.X,
		InputY:      in.Move.Y,
		Jump:        in.Jump,
	}
}

// Trace writes tick records as CSV. The header is written with the first
// record.
type Trace struct {
	w             io.Writer
	closer        io.Closer
	headerWritten bool
	rows          int
}

func NewTrace(w io.Writer) *Trace {
	return &Trace{w: w}
}

// CreateTrace opens path for writing. An empty path disables tracing and
// returns nil.
func CreateTrace(path string) (*Trace, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating trace directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	return &Trace{w: f, closer: f}, nil
}

func (t *Trace) Write(rec TickRecord) error {
	if t == nil {
		return nil
	}
	records := []TickRecord{rec}
	if !t.headerWritten {
		if err := gocsv.Marshal(records, t.w); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		t.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, t.w); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	t.rows++
	return nil
}

func (t *Trace) Rows() int {
	if t == nil {
		return 0
	}
	return t.rows
}

func (t *Trace) Close() error {
	if t == nil || t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

// ReadTrace loads a trace written by Trace.
func ReadTrace(r io.Reader) ([]TickRecord, error) {
	var out []TickRecord
	if err := gocsv.Unmarshal(r, &out); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return out, nil
}
