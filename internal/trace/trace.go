// Package trace records a run as zstd-compressed JSON lines: one header line
// followed by one line per tick.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/sim"
)

// Version of the line format.
const Version = 1

// Header is the first line of a trace.
type Header struct {
	Version  int       `json:"version"`
	RunID    string    `json:"run_id"`
	Strategy string    `json:"strategy"`
	Seed     int64     `json:"seed"`
	Size     int       `json:"size"`
	Robots   int       `json:"robots"`
	MaxTasks int       `json:"max_tasks"`
	TimeMax  int       `json:"time_max"`
	Created  time.Time `json:"created"`
}

// NewHeader describes a run. An empty runID gets a fresh one.
func NewHeader(runID, strategy string, cfg sim.SimulationConfig) Header {
	if runID == "" {
		runID = uuid.NewString()
	}
	return Header{
		Version:  Version,
		RunID:    runID,
		Strategy: strategy,
		Seed:     cfg.Seed,
		Size:     cfg.World.Size,
		Robots:   cfg.World.NumRobots,
		MaxTasks: cfg.MaxTasks,
		TimeMax:  cfg.TimeMax,
		Created:  time.Now().UTC(),
	}
}

// RobotState is a robot's state at the end of a tick.
type RobotState struct {
	ID     int    `json:"id"`
	Type   string `json:"type"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Energy int    `json:"energy"`
	Status string `json:"status"`
	Task   int    `json:"task"` // -1 when free
}

// TaskState is a task released during a tick.
type TaskState struct {
	ID   int    `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Cost [3]int `json:"cost"`
}

// Entry is one tick.
type Entry struct {
	Time       int          `json:"t"`
	Observed   int          `json:"observed"`
	Updated    [][2]int     `json:"updated,omitempty"` // Cells whose knowledge changed
	Dispatched *TaskState   `json:"dispatched,omitempty"`
	Completed  int          `json:"completed"`
	Exhausted  int          `json:"exhausted"`
	Robots     []RobotState `json:"robots"`
}

// EntryOf snapshots a tick.
func EntryOf(t sim.Tick) Entry {
	e := Entry{
		Time:      t.Time,
		Observed:  len(t.Observed),
		Completed: t.World.CompletedTasks(),
		Exhausted: t.World.ExhaustedRobots(),
	}
	for _, c := range t.Updated.Sorted() {
		e.Updated = append(e.Updated, [2]int{c.X, c.Y})
	}
	if d := t.Dispatched; d != nil {
		e.Dispatched = &TaskState{ID: int(d.ID), X: d.Coord.X, Y: d.Coord.Y, Cost: d.Cost}
	}
	for _, r := range t.World.Robots() {
		e.Robots = append(e.Robots, RobotState{
			ID:     int(r.ID),
			Type:   r.Type.String(),
			X:      r.Coord.X,
			Y:      r.Coord.Y,
			Energy: r.Energy,
			Status: r.Status.String(),
			Task:   int(r.Task),
		})
	}
	return e
}

// Writer streams a trace. It implements sim.TickObserver; the first write
// error is kept and returned by Err and Close.
type Writer struct {
	mu  sync.Mutex
	c   io.Closer // Underlying file, nil when the caller owns the sink
	enc *zstd.Encoder
	w   *bufio.Writer
	err error
}

var _ sim.TickObserver = (*Writer)(nil)

// Create opens path, creating parent directories, and writes the header.
func Create(path string, h Header) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, h)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.c = f
	return w, nil
}

// NewWriter compresses onto dst and writes the header. Close does not close dst.
func NewWriter(dst io.Writer, h Header) (*Writer, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	w := &Writer{enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}
	if err := w.write(h); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("trace header: %w", err)
	}
	return w, nil
}

// OnTick appends the tick's entry.
func (w *Writer) OnTick(t sim.Tick) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return
	}
	w.err = w.write(EntryOf(t))
}

// Err returns the first write error.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Writer) write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes the stream and closes the file opened by Create.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	errs := []error{w.err, w.w.Flush(), w.enc.Close()}
	if w.c != nil {
		errs = append(errs, w.c.Close())
		w.c = nil
	}
	return errors.Join(errs...)
}

// Reader decodes a trace.
type Reader struct {
	header Header
	dec    *zstd.Decoder
	json   *json.Decoder
	c      io.Closer
}

// Open reads the header of the trace at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.c = f
	return r, nil
}

// NewReader decompresses src and reads the header.
func NewReader(src io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, err
	}
	r := &Reader{dec: dec, json: json.NewDecoder(dec)}
	if err := r.json.Decode(&r.header); err != nil {
		dec.Close()
		return nil, fmt.Errorf("trace header: %w", err)
	}
	if r.header.Version != Version {
		dec.Close()
		return nil, fmt.Errorf("trace: unsupported version %d", r.header.Version)
	}
	return r, nil
}

// Header returns the run description.
func (r *Reader) Header() Header { return r.header }

// Next returns the following tick, or io.EOF at the end of the trace.
func (r *Reader) Next() (Entry, error) {
	var e Entry
	err := r.json.Decode(&e)
	return e, err
}

// Close releases the decoder and the file opened by Open.
func (r *Reader) Close() error {
	r.dec.Close()
	if r.c != nil {
		return r.c.Close()
	}
	return nil
}

// Robot returns the entry's state of robot id.
func (e Entry) Robot(id core.RobotID) (RobotState, bool) {
	for _, r := range e.Robots {
		if r.ID == int(id) {
			return r, true
		}
	}
	return RobotState{}, false
}
