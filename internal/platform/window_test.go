package platform

import (
	"testing"

	"github.com/cockroachdb/errors"
	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/veandco/go-sdl2/sdl"
)

// scripted feeds one batch of events per loop iteration.
func scripted(batches ...[]sdl.Event) *Window {
	logger, _ := test.NewNullLogger()

	var pending []sdl.Event
	next := 0
	poll := func() sdl.Event {
		if len(pending) == 0 {
			if next < len(batches) {
				pending = append(pending, batches[next]...)
			}
			next++
			// a nil event ends each batch
			pending = append(pending, nil)
		}
		event := pending[0]
		pending = pending[1:]
		return event
	}

	return &Window{log: logger, pollEvent: poll}
}

func TestRunEventLoopStopsOnQuit(t *testing.T) {
	c := qt.New(t)

	w := scripted(nil, []sdl.Event{&sdl.MouseMotionEvent{}}, nil, []sdl.Event{&sdl.QuitEvent{Type: sdl.QUIT}})

	iterations, done := 0, 0
	err := w.RunEventLoop(func() error {
		iterations++
		return nil
	}, func() error {
		done++
		return nil
	})

	c.Assert(err, qt.IsNil)
	c.Assert(iterations, qt.Equals, 3)
	c.Assert(done, qt.Equals, 1)
}

func TestRunEventLoopStopsOnEscape(t *testing.T) {
	c := qt.New(t)

	keyUp := &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}
	otherKey := &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_SPACE}}
	escape := &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}
	w := scripted([]sdl.Event{keyUp, otherKey}, []sdl.Event{escape})

	iterations := 0
	err := w.RunEventLoop(func() error {
		iterations++
		return nil
	}, func() error { return nil })

	c.Assert(err, qt.IsNil)
	c.Assert(iterations, qt.Equals, 1)
}

func TestRunEventLoopStopsOnIterationError(t *testing.T) {
	c := qt.New(t)

	w := scripted()
	errFrame := errors.New("frame failed")
	errIdle := errors.New("idle failed")

	iterations, done := 0, 0
	err := w.RunEventLoop(func() error {
		iterations++
		if iterations == 4 {
			return errFrame
		}
		return nil
	}, func() error {
		done++
		return errIdle
	})

	c.Assert(iterations, qt.Equals, 4)
	c.Assert(done, qt.Equals, 1)
	c.Assert(errors.Is(err, errFrame), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, "frame failed")
}

func TestRunEventLoopReportsDoneError(t *testing.T) {
	c := qt.New(t)

	w := scripted([]sdl.Event{&sdl.QuitEvent{Type: sdl.QUIT}})
	errIdle := errors.New("idle failed")

	err := w.RunEventLoop(func() error { return nil }, func() error { return errIdle })
	c.Assert(errors.Is(err, errIdle), qt.IsTrue)
}
