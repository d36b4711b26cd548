package relay

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tuannvm/formrelay/internal/models"
)

// Sink receives a finished report
type Sink interface {
	Name() string
	Send(ctx context.Context, report models.Report) error
}

// skipped stands in for a sink whose configuration is missing
type skipped struct {
	name   string
	reason string
}

// Result is the outcome of one sink call
type Result struct {
	Sink    string
	Skipped bool
	Err     error
}

// Dispatcher fans a report out to every sink.
// Sinks run concurrently and are attempted at most once per report.
// A failing sink never stops or hides the others.
type Dispatcher struct {
	sinks   []Sink
	skipped []skipped
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewDispatcher creates a dispatcher. A zero timeout leaves sink calls
// bounded only by the caller's context.
func NewDispatcher(logger *zap.SugaredLogger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{timeout: timeout, logger: logger}
}

// Add registers a sink
func (d *Dispatcher) Add(sink Sink) *Dispatcher {
	d.sinks = append(d.sinks, sink)
	return d
}

// Skip records a sink that is not configured. Every dispatch logs a warning for it.
func (d *Dispatcher) Skip(name, reason string) *Dispatcher {
	d.skipped = append(d.skipped, skipped{name: name, reason: reason})
	return d
}

// Dispatch sends report to all sinks and waits for them. Failures are
// logged and returned per sink, never as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, requestID string, report models.Report) []Result {
	results := make([]Result, len(d.sinks), len(d.sinks)+len(d.skipped))

	var g errgroup.Group
	for i, sink := range d.sinks {
		g.Go(func() error {
			sendCtx, cancel := d.sinkContext(ctx)
			defer cancel()

			start := time.Now()
			err := send(sendCtx, sink, report)
			results[i] = Result{Sink: sink.Name(), Err: err}
			if err != nil {
				d.logger.Errorf("[%s] %s delivery failed: %v", requestID, sink.Name(), err)
				return nil
			}
			d.logger.Infof("[%s] %s delivery done in %v", requestID, sink.Name(), time.Since(start))
			return nil
		})
	}
	_ = g.Wait()

	for _, s := range d.skipped {
		d.logger.Warnf("[%s] %s", requestID, s.reason)
		results = append(results, Result{Sink: s.name, Skipped: true})
	}
	return results
}

// send calls sink.Send, turning a panic into that sink's error
func send(ctx context.Context, sink Sink, report models.Report) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s sink panicked: %v", sink.Name(), rec)
		}
	}()
	return sink.Send(ctx, report)
}

// sinkContext keeps request values but not request cancellation, so a
// caller that hangs up does not abort deliveries already under way.
func (d *Dispatcher) sinkContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}
