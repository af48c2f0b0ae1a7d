package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backlog is the number of established connections queued for accept.
const Backlog = 10

type Options struct {
	// Address is the local IPv4 address or host name; empty means any.
	Address string
	// Port 0 picks an ephemeral port.
	Port       int
	Verbose    bool
	Dispatcher Dispatcher
	Logger     *zap.Logger
}

type Server struct {
	listener    net.Listener
	isListening atomic.Bool
	dispatcher  Dispatcher
	verbose     bool
	logger      *zap.Logger

	// done is closed once Serve stops calling the dispatcher.
	done     chan struct{}
	doneOnce sync.Once
}

// Listen creates, binds and listens on the endpoint. Failure here is a
// fatal environment error for the caller.
func Listen(opts Options) (*Server, error) {
	if opts.Dispatcher == nil {
		return nil, errors.New("server: no dispatcher")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	listener, err := listen(opts.Address, opts.Port, Backlog)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener:   listener,
		dispatcher: opts.Dispatcher,
		verbose:    opts.Verbose,
		logger:     logger,
		done:       make(chan struct{}),
	}
	s.isListening.Store(true)

	if s.verbose {
		s.logger.Info("server listening", zap.String("addr", listener.Addr().String()))
	}
	return s, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until Close is called, returning nil, or until
// accept or dispatch fails, returning the error. Only accept blocks; every
// connection is handed to the dispatcher and forgotten.
func (s *Server) Serve() error {
	defer s.doneOnce.Do(func() { close(s.done) })

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.isListening.Load() {
				return nil
			}
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		id := uuid.NewString()
		if s.verbose {
			s.logger.Info("connection accepted",
				zap.String("conn_id", id),
				zap.String("remote", conn.RemoteAddr().String()),
			)
		}
		if err := s.dispatcher.Dispatch(id, conn); err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
	}
}

// Close stops accepting. Units already dispatched keep running; call
// Wait to block until they finish.
func (s *Server) Close() error {
	if !s.isListening.CompareAndSwap(true, false) {
		return nil
	}

	if s.listener != nil {
		return s.listener.Close()
	}

	return nil
}

// Wait blocks until Serve has returned and every unit it dispatched has
// finished. It never returns if Serve is never called.
func (s *Server) Wait() {
	<-s.done
	s.dispatcher.Wait()
}
