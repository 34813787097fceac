package hx711

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
)

// SampleCallback receives every completed sample, in order, on the loop goroutine.
type SampleCallback func(s Sample)

// ErrorCallback receives every failed cycle. The loop keeps going afterwards.
type ErrorCallback func(err error)

// Run is the acquisition loop. It reads conversions back to back until ctx is
// done, handing each one to onSample.
//
// Cancellation is only honored between cycles, never inside a pulse train.
// Hardware faults and ready timeouts are passed to onError (which may be nil)
// and the loop continues from idle; after a hardware fault it first waits
// FaultBackoff. The clock line is low when Run returns ctx.Err().
func (d *HX711) Run(ctx context.Context, onSample SampleCallback, onError ErrorCallback) error {
	if onSample == nil {
		return errors.New("hx711: nil sample callback")
	}

	for {
		select {
		case <-ctx.Done():
			return d.idle(ctx.Err())
		default:
		}

		s, err := d.Read(ctx)
		switch {
		case err == nil:
			onSample(s)
			continue
		case errors.Is(err, ErrClosed):
			return err
		case ctx.Err() != nil && errors.Is(err, ctx.Err()):
			return d.idle(err)
		}

		d.mu.Lock()
		log, clock, backoff := d.log, d.clock, d.cfg.FaultBackoff
		d.mu.Unlock()

		log.Warn().Err(err).Msg("acquisition cycle failed")
		if onError != nil {
			onError(err)
		}
		if errors.Is(err, ErrHardwareFault) && backoff > 0 {
			clock.Sleep(backoff)
		}
	}
}

// idle leaves the clock low on the way out of Run.
func (d *HX711) idle(cause error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return cause
	}
	if err := d.clk.Low(); err != nil {
		return multierr.Append(cause, hardwareFault("clock low", err))
	}
	return cause
}

// maxAcquisitionErrors bounds the errors an Acquisition remembers.
const maxAcquisitionErrors = 50

// Acquisition is a handle on a Run loop started by [HX711.Acquire].
type Acquisition struct {
	done     *atomic.Bool
	running  *atomic.Bool
	count    *atomic.Uint64
	failures *atomic.Uint64
	callback SampleCallback
	cancel   context.CancelFunc
	finished chan struct{}
	result   error
	err      []error
	errMu    sync.Mutex
}

func newAcquisition(onSample SampleCallback, cancel context.CancelFunc) *Acquisition {
	return &Acquisition{
		done:     &atomic.Bool{},
		running:  &atomic.Bool{},
		count:    &atomic.Uint64{},
		failures: &atomic.Uint64{},
		callback: onSample,
		cancel:   cancel,
		finished: make(chan struct{}),
		err:      make([]error, 0),
	}
}

func (a *Acquisition) addErr(err error) {
	if err == nil {
		return
	}
	a.failures.Add(1)
	a.errMu.Lock()
	a.err = append(a.err, err)
	if len(a.err) > maxAcquisitionErrors {
		a.err = a.err[len(a.err)-maxAcquisitionErrors:]
	}
	a.errMu.Unlock()
}

func (a *Acquisition) onSample(s Sample) {
	a.count.Add(1)
	a.callback(s)
}

// Err combines the most recent cycle errors, or returns nil if every cycle succeeded.
func (a *Acquisition) Err() error {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	if len(a.err) == 0 {
		return nil
	}
	return multierr.Combine(a.err...)
}

// Count returns the number of samples delivered so far.
func (a *Acquisition) Count() uint64 {
	return a.count.Load()
}

// Failures returns the number of failed cycles so far.
func (a *Acquisition) Failures() uint64 {
	return a.failures.Load()
}

// Stop asks the loop to finish after the cycle in progress.
func (a *Acquisition) Stop() {
	a.done.Store(true)
	a.cancel()
}

// IsDone reports whether the loop has been stopped.
func (a *Acquisition) IsDone() bool {
	return a.done.Load()
}

// IsRunning reports whether the loop goroutine is still active.
func (a *Acquisition) IsRunning() bool {
	return a.running.Load()
}

// Wait blocks until the loop has exited, or until ctx (if given) is done.
// It returns the loop's exit error, context.Canceled after a plain Stop.
func (a *Acquisition) Wait(ctx ...context.Context) error {
	var ctxDone <-chan struct{}
	if len(ctx) > 0 {
		ctxDone = ctx[0].Done()
	}
	select {
	case <-a.finished:
		return a.result
	case <-ctxDone:
		return ctx[0].Err()
	}
}

// Acquire starts Run on its own goroutine. Stop the returned handle, or cancel
// ctx, to end it.
func (d *HX711) Acquire(ctx context.Context, onSample SampleCallback) (*Acquisition, error) {
	if onSample == nil {
		return nil, errors.New("hx711: nil sample callback")
	}

	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(ctx)

	acq := newAcquisition(onSample, cancel)
	acq.running.Store(true)

	go func() {
		defer close(acq.finished)
		acq.result = d.Run(ctx, acq.onSample, acq.addErr)
		acq.done.Store(true)
		acq.running.Store(false)
		cancel()
	}()

	return acq, nil
}
