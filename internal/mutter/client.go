package mutter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/1broseidon/displaypresets/internal/display"
)

const (
	Destination = "org.gnome.Mutter.DisplayConfig"
	ObjectPath  = dbus.ObjectPath("/org/gnome/Mutter/DisplayConfig")
	Interface   = "org.gnome.Mutter.DisplayConfig"

	methodGetCurrentState     = "GetCurrentState"
	methodApplyMonitorsConfig = "ApplyMonitorsConfig"
)

// Client talks to Mutter's DisplayConfig service on the session bus.
type Client struct {
	timeout time.Duration
	logger  *slog.Logger
	dial    func(ctx context.Context) (*dbus.Conn, error)

	// ctx bounds the lifetime of the bus connection; Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	conn *dbus.Conn
}

// NewClient returns a client whose calls are bounded by timeout. A zero
// timeout leaves only the caller's context in charge.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		timeout: timeout,
		logger:  logger,
		dial:    dialSessionBus,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func dialSessionBus(ctx context.Context) (*dbus.Conn, error) {
	return dbus.ConnectSessionBus(dbus.WithContext(ctx))
}

// GetCurrentState queries and decodes the current display configuration.
func (c *Client) GetCurrentState(ctx context.Context) (display.State, error) {
	body, err := c.call(ctx, methodGetCurrentState)
	if err != nil {
		return display.State{}, err
	}
	state, err := DecodeState(body)
	if err != nil {
		return display.State{}, err
	}
	c.logger.Debug("current display state", "serial", state.Serial,
		"monitors", len(state.Monitors), "logical_monitors", len(state.LogicalMonitors))
	return state, nil
}

// ApplyMonitorsConfig submits req. A stale serial is rejected by the service
// and surfaced as a TransportError.
func (c *Client) ApplyMonitorsConfig(ctx context.Context, req ApplyRequest) error {
	c.logger.Debug("applying monitors config", "serial", req.Serial,
		"method", req.Method, "logical_monitors", len(req.LogicalMonitors))
	_, err := c.call(ctx, methodApplyMonitorsConfig, req.Args()...)
	return err
}

// Close releases the bus connection, if one was opened, and abandons any
// connect still in progress.
func (c *Client) Close() error {
	defer c.cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

type dialResult struct {
	conn *dbus.Conn
	err  error
}

// connection returns the cached bus connection or opens one. The connect and
// auth handshake give up when ctx is done; the connection itself lives until
// Close.
func (c *Client) connection(ctx context.Context) (*dbus.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn, nil
	}

	done := make(chan dialResult, 1)
	go func() {
		conn, err := c.dial(c.ctx)
		done <- dialResult{conn: conn, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("connect to session bus: %w", res.err)
		}
		c.conn = res.conn
		return res.conn, nil
	case <-ctx.Done():
		go func() {
			if res := <-done; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, fmt.Errorf("connect to session bus: %w", ctx.Err())
	}
}

func (c *Client) call(ctx context.Context, method string, args ...any) ([]any, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.connection(ctx)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}

	obj := conn.Object(Destination, ObjectPath)
	call := obj.CallWithContext(ctx, Interface+"."+method, 0, args...)
	if call.Err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &TransportError{Method: method, Err: fmt.Errorf("%w: %v", ctxErr, call.Err)}
		}
		return nil, &TransportError{Method: method, Err: call.Err}
	}
	return call.Body, nil
}
