package asciimg

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/apex/log"
)

// Clock abstracts time for the playback driver
type Clock interface {
	Now() time.Time
	// Sleep suspends for d or until ctx is done, whichever comes first
	Sleep(ctx context.Context, d time.Duration) error
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WallClock is the real time Clock
var WallClock Clock = wallClock{}

// PlayOptions configures a Player
type PlayOptions struct {
	Render RenderOptions
	// Loops is how many times an animation plays; 0 and 1 play once, negative loops until ctx is done.
	// Still images always play once.
	Loops int
	// InPlace moves the cursor back over the previous frame before drawing the next one
	InPlace bool
	Clock   Clock
	Logger  log.Interface
}

// Player renders frames and writes them out, paced by their delays
type Player struct {
	w     io.Writer
	opts  PlayOptions
	clock Clock
	log   log.Interface
}

// NewPlayer creates a Player writing to w
func NewPlayer(w io.Writer, opts PlayOptions) *Player {
	p := &Player{w: w, opts: opts, clock: opts.Clock, log: opts.Logger}
	if p.clock == nil {
		p.clock = WallClock
	}
	if p.log == nil {
		p.log = log.Log
	}
	return p
}

type flusher interface {
	Flush() error
}

// Play renders every frame of fs into one reused TextFrame and writes it.
//
// Before frame i is written the player waits until fs.Delays[i] has passed
// since the previous write (since the start of playback for the first one).
// A final Reset is written after the last frame, and also when ctx is
// cancelled, in which case ctx.Err() is returned.
func (p *Player) Play(ctx context.Context, fs *FrameSet) error {
	if err := fs.Validate(); err != nil {
		return err
	}

	tf, err := NewTextFrame(Geometry{Width: fs.Width(), Height: fs.Height()})
	if err != nil {
		return err
	}

	loops := 1
	if fs.Animated() && p.opts.Loops != 0 {
		loops = p.opts.Loops
	}

	p.log.WithFields(log.Fields{
		"frames":   fs.Len(),
		"geometry": tf.Geometry().String(),
		"bytes":    len(tf.Bytes()),
		"loops":    loops,
	}).Debug("starting playback")

	last := p.clock.Now()
	shown := 0
	for loop := 0; loops < 0 || loop < loops; loop++ {
		for i, frame := range fs.Frames {
			if err := RenderFrame(tf, frame, p.opts.Render); err != nil {
				return fmt.Errorf("failed to render frame %d: %w", i, err)
			}

			sleep := fs.Delays[i] - p.clock.Now().Sub(last)
			if sleep > 0 {
				p.log.WithFields(log.Fields{
					"frame": i,
					"delay": fs.Delays[i],
					"sleep": sleep,
				}).Debug("pacing")
				if err := p.clock.Sleep(ctx, sleep); err != nil {
					return p.finish(err)
				}
			}
			if err := ctx.Err(); err != nil {
				return p.finish(err)
			}

			if err := p.writeFrame(tf, shown > 0); err != nil {
				return err
			}
			last = p.clock.Now()
			shown++
		}
	}

	return p.finish(nil)
}

func (p *Player) writeFrame(tf *TextFrame, redraw bool) error {
	if redraw && p.opts.InPlace {
		if _, err := fmt.Fprintf(p.w, "\x1b[%dA", tf.Geometry().Height); err != nil {
			return NewError(KindIO, "write", err)
		}
	}
	if _, err := tf.WriteTo(p.w); err != nil {
		return NewError(KindIO, "write", err)
	}
	return p.flush()
}

// finish writes the closing reset; cause is returned unless the reset itself fails first
func (p *Player) finish(cause error) error {
	if _, err := io.WriteString(p.w, Reset); err != nil && cause == nil {
		return NewError(KindIO, "write", err)
	}
	if err := p.flush(); err != nil && cause == nil {
		return err
	}
	return cause
}

func (p *Player) flush() error {
	if f, ok := p.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return NewError(KindIO, "flush", err)
		}
	}
	return nil
}
