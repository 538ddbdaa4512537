package netstr

import (
	"context"
	"runtime"
	"time"
)

// Op is a resumable netstring operation. Step returns nil once the operation
// has completed, ErrWouldBlock while it waits on the stream, and any other
// error when it has failed. Once Step returns something other than
// ErrWouldBlock it keeps returning that result.
//
// An operation owns its stream until it finishes. Running two operations on
// one stream at the same time is not supported.
type Op interface {
	Step() error
}

// Run steps op until it stops reporting ErrWouldBlock. Between attempts it
// yields the goroutine if delay is zero, or sleeps for delay otherwise.
//
// If ctx is done first, Run abandons op and returns ctx.Err(). Bytes the op
// had already consumed are gone, so the stream must not be used for framing
// afterwards.
func Run(ctx context.Context, op Op, delay time.Duration) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		err := op.Step()
		if !isWouldBlock(err) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if delay <= 0 {
			runtime.Gosched()
			continue
		}
		if timer == nil {
			timer = time.NewTimer(delay)
		} else {
			timer.Reset(delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}
