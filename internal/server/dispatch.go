package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// Dispatcher starts an execution unit that takes ownership of conn.
// Dispatch must not block on the unit. Wait blocks until every unit
// started so far has finished; it must not run concurrently with Dispatch.
//
// Two units exist. Goroutines share the server's address space: a panic is
// recovered, but a module that corrupts memory or exits the process takes the
// server down with it. Processes give each connection its own failure domain
// at the cost of a fork/exec per request.
type Dispatcher interface {
	Dispatch(id string, conn net.Conn) error
	Wait()
}

type GoroutineDispatcher struct {
	handler *ConnHandler
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func NewGoroutineDispatcher(handler *ConnHandler, logger *zap.Logger) *GoroutineDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoroutineDispatcher{handler: handler, logger: logger}
}

func (d *GoroutineDispatcher) Dispatch(id string, conn net.Conn) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer conn.Close()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("connection handler panicked",
					zap.String("conn_id", id),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
			}
		}()
		d.handler.Handle(id, conn)
	}()
	return nil
}

func (d *GoroutineDispatcher) Wait() {
	d.wg.Wait()
}

const (
	// InheritedConnFD is the descriptor a worker process finds its
	// connection on (the first entry of exec.Cmd.ExtraFiles).
	InheritedConnFD = 3
	// ConnIDEnv carries the connection id into the worker.
	ConnIDEnv = "MODSERVE_CONN_ID"
)

type ProcessOptions struct {
	// Path and Args name the worker command, which must call ServeInherited.
	Path string
	Args []string
	// Env is the complete worker environment; ConnIDEnv is appended.
	Env []string
	// Stderr receives the worker's log output; nil discards it.
	Stderr io.Writer
	Logger *zap.Logger
}

type ProcessDispatcher struct {
	opts   ProcessOptions
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewProcessDispatcher(opts ProcessOptions) *ProcessDispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessDispatcher{opts: opts, logger: logger}
}

type filer interface {
	File() (*os.File, error)
}

// Dispatch hands a duplicate of the socket to a new worker and closes the
// server's copies before returning. The worker runs with stdin and stdout
// attached to the null device.
func (d *ProcessDispatcher) Dispatch(id string, conn net.Conn) error {
	fc, ok := conn.(filer)
	if !ok {
		conn.Close()
		return fmt.Errorf("spawn: %T has no file descriptor", conn)
	}
	f, err := fc.File()
	conn.Close()
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	defer f.Close()

	cmd := exec.Command(d.opts.Path, d.opts.Args...)
	cmd.Env = append(append([]string(nil), d.opts.Env...), ConnIDEnv+"="+id)
	cmd.ExtraFiles = []*os.File{f}
	cmd.Stderr = d.opts.Stderr
	d.wg.Add(1)
	if err := cmd.Start(); err != nil {
		d.wg.Done()
		return fmt.Errorf("spawn: %w", err)
	}
	go d.reap(id, cmd)
	return nil
}

// reap collects the worker's exit status so it never lingers as a zombie.
func (d *ProcessDispatcher) reap(id string, cmd *exec.Cmd) {
	defer d.wg.Done()

	err := cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		d.logger.Debug("worker exited", zap.String("conn_id", id), zap.Int("pid", cmd.Process.Pid))
	case errors.As(err, &exitErr):
		d.logger.Warn("worker failed",
			zap.String("conn_id", id),
			zap.Int("pid", cmd.Process.Pid),
			zap.String("state", exitErr.ProcessState.String()),
		)
	default:
		d.logger.Error("wait for worker", zap.String("conn_id", id), zap.Error(err))
	}
}

func (d *ProcessDispatcher) Wait() {
	d.wg.Wait()
}
