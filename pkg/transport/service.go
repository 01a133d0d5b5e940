// Package transport serves translation results to the engine over loopback HTTP.
//
// A [Service] owns one listener and moves through a fixed set of states:
//
//	Stopped -> Starting -> Running -> Stopping -> Stopped
//	              |
//	              +-> Stopped   (bind failure)
//
// Every state change goes through a single mutex-guarded transition, so Start
// and Stop are idempotent: starting a running service or stopping a stopped
// one does nothing. A status notification ("started" or "stopped") is sent
// after each completed start or stop.
package transport

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gslbridge/pkg/errors"
	"github.com/matzehuels/gslbridge/pkg/notify"
	"github.com/matzehuels/gslbridge/pkg/observability"
)

// State is the lifecycle state of a [Service].
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func allowed(from, to State) bool {
	switch from {
	case StateStopped:
		return to == StateStarting
	case StateStarting:
		return to == StateRunning || to == StateStopped
	case StateRunning:
		return to == StateStopping
	case StateStopping:
		return to == StateStopped
	}
	return false
}

// DefaultShutdownTimeout bounds how long Stop waits for in-flight requests.
const DefaultShutdownTimeout = time.Second

const notifyTimeout = time.Second

// Service is the listener lifecycle. The zero value is not usable; use
// [NewService].
type Service struct {
	Addr            string
	Handler         http.Handler
	Notifier        notify.Notifier
	Logger          *log.Logger
	ShutdownTimeout time.Duration

	mu    sync.Mutex
	state State
	srv   *http.Server
	ln    net.Listener
	done  chan struct{}
}

// NewService creates a stopped service listening on addr once started.
// A nil notifier disables notifications.
func NewService(addr string, handler http.Handler, n notify.Notifier, logger *log.Logger) *Service {
	if n == nil {
		n = notify.Nop{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		Addr:            addr,
		Handler:         handler,
		Notifier:        n,
		Logger:          logger,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BoundAddr returns the address the listener is bound to, or "" when not
// running. It differs from Addr when Addr uses port 0.
func (s *Service) BoundAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// transition moves the service from one state to another. It reports false,
// changing nothing, when the service is not in from or the move is not
// allowed.
func (s *Service) transition(from, to State) bool {
	s.mu.Lock()
	if s.state != from || !allowed(from, to) {
		s.mu.Unlock()
		return false
	}
	s.state = to
	s.mu.Unlock()
	observability.Transport().OnStateChange(from.String(), to.String())
	return true
}

// Start binds the listener and serves in the background. It returns nil
// without doing anything when the service is not stopped.
func (s *Service) Start(ctx context.Context) error {
	if !s.transition(StateStopped, StateStarting) {
		return nil
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		s.transition(StateStarting, StateStopped)
		s.Logger.Error("listener failed to start", "addr", s.Addr, "err", err)
		return errors.Wrap(errors.ErrCodeTransport, err, "listen on %s", s.Addr)
	}

	srv := &http.Server{Handler: s.Handler, ReadHeaderTimeout: 5 * time.Second}
	done := make(chan struct{})
	s.mu.Lock()
	s.srv, s.ln, s.done = srv, ln, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("listener stopped", "err", err)
		}
	}()

	s.transition(StateStarting, StateRunning)
	s.Logger.Info("listener started", "url", "http://"+ln.Addr().String())
	s.notify(ctx, notify.StatusStarted)
	return nil
}

// Stop shuts the listener down, waiting up to ShutdownTimeout for in-flight
// requests before closing their connections. It returns nil without doing
// anything when the service is not running.
func (s *Service) Stop(ctx context.Context) error {
	if !s.transition(StateRunning, StateStopping) {
		return nil
	}

	s.mu.Lock()
	srv, done := s.srv, s.done
	s.mu.Unlock()

	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stopErr error
	if err := srv.Shutdown(sctx); err != nil {
		s.Logger.Warn("forcing listener close", "err", err)
		if err := srv.Close(); err != nil {
			stopErr = errors.Wrap(errors.ErrCodeTransport, err, "close listener")
		}
	}
	select {
	case <-done:
	case <-time.After(timeout):
		s.Logger.Warn("listener goroutine did not exit in time")
	}

	s.mu.Lock()
	s.srv, s.ln, s.done = nil, nil, nil
	s.mu.Unlock()
	s.transition(StateStopping, StateStopped)
	s.Logger.Info("listener stopped")
	s.notify(ctx, notify.StatusStopped)
	return stopErr
}

// notify sends a status notification. Failures are logged and ignored.
func (s *Service) notify(ctx context.Context, status notify.Status) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	err := s.Notifier.Notify(nctx, status)
	observability.Transport().OnNotify(ctx, string(status), err)
	if err != nil {
		s.Logger.Error("failed to send status notification", "status", status, "err", err)
	}
}
