package sinks

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// ConnectTimeout bounds the wait for the initial socket.io handshake.
var ConnectTimeout = 15 * time.Second

// ErrDisconnected is returned by Write while the client is not connected.
var ErrDisconnected = errors.New("socket.io client is not connected")

// Payload is the body of every emitted event.
type Payload struct {
	Device string `json:"device"`
	Axis   string `json:"axis"`
	Value  int32  `json:"value"`
}

// emitter is the part of *socket.Socket the sink uses.
type emitter interface {
	Emit(ev string, args ...any) error
	Connected() bool
}

// SocketIO forwards every write as a socket.io event.
type SocketIO struct {
	name   string
	event  string
	client emitter
	close  func()
	logger *slog.Logger
}

// DialSocketIO connects to the server in opts and waits for the handshake.
func DialSocketIO(ctx context.Context, name string, opts *config.SocketIOOptions) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "device", name, "url", opts.URL)
	logger.Info("Connecting socket.io device...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("virtual device %q: failed to parse URL: %w", name, err)
	}

	sopts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sopts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})
	io.On(types.EventName("disconnect"), func(reason ...any) {
		logger.Warn("Disconnected", "reason", fmt.Sprint(reason...))
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("virtual device %q: socket.io connection failed: %w", name, err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("virtual device %q: context cancelled while waiting for socket.io connection: %w", name, ctx.Err())
	case <-time.After(ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("virtual device %q: timed out after %s waiting for socket.io connection", name, ConnectTimeout)
	}

	return &SocketIO{
		name:   name,
		event:  opts.Event,
		client: io,
		close:  func() { io.Disconnect() },
		logger: logger,
	}, nil
}

func (s *SocketIO) Write(a axis.Axis, v int32) error {
	if !s.client.Connected() {
		return fmt.Errorf("write %s:%s: %w", s.name, a, ErrDisconnected)
	}
	p := Payload{Device: s.name, Axis: a.String(), Value: v}
	if err := s.client.Emit(s.event, p); err != nil {
		return fmt.Errorf("write %s:%s: %w", s.name, a, err)
	}
	return nil
}

// Close disconnects the client.
func (s *SocketIO) Close() error {
	s.logger.Info("Closing socket.io device.")
	if s.close != nil {
		s.close()
	}
	return nil
}
