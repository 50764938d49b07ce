package engine

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/vk/axisflow/internal/device"
)

// Listen starts one worker per source. Each worker forwards the events of
// its device, tagged with the device name, into q until NextEvent fails.
// Once every worker has returned, q is closed. Listen returns immediately;
// the returned channel is closed after q.
//
// NextEvent cannot be interrupted, so cancelling ctx only stops a worker
// after its next event. Closing the devices ends the workers promptly.
func Listen(ctx context.Context, sources map[string]device.Source, q *Queue) <-chan struct{} {
	logger := ctxlog.FromContext(ctx)
	var wg sync.WaitGroup
	for name, src := range sources {
		wg.Add(1)
		go func(name string, src device.Source) {
			defer wg.Done()
			listen(ctx, name, src, q)
		}(name, src)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		logger.Debug("All listeners stopped, closing update queue.")
		q.Close()
		close(done)
	}()
	return done
}

func listen(ctx context.Context, name string, src device.Source, q *Queue) {
	ctx, logger := ctxlog.With(ctx, "device", name)
	logger.Debug("Listener started.")
	for {
		ev, err := src.NextEvent()
		if errors.Is(err, io.EOF) {
			logger.Info("Device event stream ended.")
			return
		}
		if err != nil {
			logger.Error("Failed to read device event.", "error", err)
			return
		}
		if ctx.Err() != nil {
			logger.Debug("Listener cancelled.")
			return
		}
		if !q.Push(device.AxisUpdate{Device: name, Axis: ev.Axis, Value: ev.Value}) {
			logger.Debug("Update queue closed, listener exiting.")
			return
		}
	}
}
