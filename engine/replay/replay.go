package replay

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/game"
)

var magic = [4]byte{'D', 'S', 'R', 'P'}

const version uint16 = 1

// Replay records and plays back the frames of one session
type Replay struct {
	Seed   int64
	Frames []Frame
	file   *os.File
	writer *bufio.Writer
}

// NewReplayRecorder creates a replay file for a session seeded with seed
func NewReplayRecorder(path string, seed int64) (*Replay, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r := &Replay{
		Seed:   seed,
		file:   f,
		writer: bufio.NewWriter(f),
	}
	if err := r.writeHeader(); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing replay header: %w", err)
	}
	return r, nil
}

func (r *Replay) writeHeader() error {
	if _, err := r.writer.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(r.writer, binary.LittleEndian, version); err != nil {
		return err
	}
	return binary.Write(r.writer, binary.LittleEndian, r.Seed)
}

// Record appends a frame, stamping its sequence number
func (r *Replay) Record(f Frame) error {
	f.Seq = uint64(len(r.Frames))
	r.Frames = append(r.Frames, f)
	if r.writer == nil {
		return nil
	}
	return f.Encode(r.writer)
}

// Close flushes and closes the replay file
func (r *Replay) Close() error {
	var errs []error
	if r.writer != nil {
		errs = append(errs, r.writer.Flush())
	}
	if r.file != nil {
		errs = append(errs, r.file.Close())
	}
	return errors.Join(errs...)
}

// LoadReplay reads a whole replay file
func LoadReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	var hdr [4]byte
	if _, err := io.ReadFull(reader, hdr[:]); err != nil || hdr != magic {
		return nil, fmt.Errorf("%w: not a replay file", ErrBadFrame)
	}
	var ver uint16
	if err := binary.Read(reader, binary.LittleEndian, &ver); err != nil || ver != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadFrame, ver)
	}

	rep := &Replay{}
	if err := binary.Read(reader, binary.LittleEndian, &rep.Seed); err != nil {
		return nil, fmt.Errorf("%w: missing seed", ErrBadFrame)
	}
	for {
		var fr Frame
		err := fr.Decode(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rep.Frames = append(rep.Frames, fr)
	}
	return rep, nil
}

// Recorder sits between a host and its session and records every
// command and step it forwards.
type Recorder struct {
	Session *game.Session
	Replay  *Replay
}

// Handle forwards cmd and records it
func (r *Recorder) Handle(cmd game.Command) error {
	if err := r.Session.Handle(cmd); err != nil {
		return err
	}
	return r.Replay.Record(Frame{Kind: FrameCommand, Command: cmd})
}

// Step forwards a fixed step and records it
func (r *Recorder) Step(dt float64, in core.Intent) (float64, error) {
	simulated := r.Session.Step(dt, in)
	return simulated, r.Replay.Record(Frame{Kind: FrameStep, DT: dt, Intent: in})
}

// Update forwards a wall clock step and records the delta it used
func (r *Recorder) Update(in core.Intent) (float64, error) {
	before := r.Session.Tick()
	dt := r.Session.Update(in)
	if r.Session.Tick() == before {
		return dt, nil
	}
	return dt, r.Replay.Record(Frame{Kind: FrameStep, DT: dt, Intent: in})
}

// Run plays frames into s. The session must have been built with the
// replay's seed.
func Run(s *game.Session, frames []Frame) error {
	for _, f := range frames {
		switch f.Kind {
		case FrameCommand:
			if err := s.Handle(f.Command); err != nil {
				return fmt.Errorf("replay frame %d: %w", f.Seq, err)
			}
		case FrameStep:
			s.Step(f.DT, f.Intent)
		}
	}
	return nil
}
