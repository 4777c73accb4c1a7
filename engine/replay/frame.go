package replay

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/1siamBot/dyson-siege/engine/core"
	"github.com/1siamBot/dyson-siege/engine/game"
)

// ErrBadFrame is returned when a replay stream is truncated or corrupt
var ErrBadFrame = errors.New("bad replay frame")

// FrameKind tells whether a frame steps the simulation or carries a command
type FrameKind uint8

const (
	FrameStep FrameKind = iota
	FrameCommand
)

const (
	flagFire uint8 = 1 << iota
	flagBoost
)

// Frame is one recorded host action
type Frame struct {
	Seq     uint64
	Kind    FrameKind
	DT      float64
	Intent  core.Intent
	Command game.Command
}

// Encode writes a frame to binary
func (f *Frame) Encode(w io.Writer) error {
	var flags uint8
	if f.Intent.Fire {
		flags |= flagFire
	}
	if f.Intent.Boost {
		flags |= flagBoost
	}
	fields := []any{
		f.Seq,
		f.Kind,
		f.DT,
		f.Intent.MoveAxis.X,
		f.Intent.MoveAxis.Y,
		int8(f.Intent.VerticalAxis),
		flags,
		f.Intent.Look.X,
		f.Intent.Look.Y,
	}
	for _, v := range fields {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	cmd := []byte(f.Command)
	if err := binary.Write(w, binary.LittleEndian, uint16(len(cmd))); err != nil {
		return err
	}
	_, err := w.Write(cmd)
	return err
}

// Decode reads a frame from binary. A clean end of stream before the
// first byte returns io.EOF; anything shorter than a whole frame is
// ErrBadFrame.
func (f *Frame) Decode(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &f.Seq); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("%w: %v", ErrBadFrame, err)
	}

	var (
		vertical int8
		flags    uint8
		n        uint16
	)
	fields := []any{
		&f.Kind,
		&f.DT,
		&f.Intent.MoveAxis.X,
		&f.Intent.MoveAxis.Y,
		&vertical,
		&flags,
		&f.Intent.Look.X,
		&f.Intent.Look.Y,
		&n,
	}
	for _, v := range fields {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("%w: frame %d: %v", ErrBadFrame, f.Seq, err)
		}
	}
	if f.Kind > FrameCommand {
		return fmt.Errorf("%w: frame %d: kind %d", ErrBadFrame, f.Seq, f.Kind)
	}
	f.Intent.VerticalAxis = int(vertical)
	f.Intent.Fire = flags&flagFire != 0
	f.Intent.Boost = flags&flagBoost != 0

	cmd := make([]byte, n)
	if _, err := io.ReadFull(r, cmd); err != nil {
		return fmt.Errorf("%w: frame %d: %v", ErrBadFrame, f.Seq, err)
	}
	f.Command = game.Command(cmd)
	return nil
}
