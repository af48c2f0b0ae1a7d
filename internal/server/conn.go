package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"go.uber.org/zap"

	"github.com/nhdewitt/modserve/internal/headers"
	"github.com/nhdewitt/modserve/internal/module"
	"github.com/nhdewitt/modserve/internal/request"
	"github.com/nhdewitt/modserve/internal/response"
)

// ConnHandler owns one connection from the first read to the final write.
// It never closes the connection; the execution unit running it does.
type ConnHandler struct {
	registry module.Registry
	verbose  bool
	logger   *zap.Logger
}

func NewConnHandler(registry module.Registry, verbose bool, logger *zap.Logger) *ConnHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnHandler{
		registry: registry,
		verbose:  verbose,
		logger:   logger,
	}
}

// Handle reads one request from conn and writes at most one response.
// id correlates log lines of the same connection.
func (h *ConnHandler) Handle(id string, conn io.ReadWriter) {
	log := h.logger.With(zap.String("conn_id", id))
	if c, ok := conn.(net.Conn); ok && c.RemoteAddr() != nil {
		log = log.With(zap.String("remote", c.RemoteAddr().String()))
	}

	req, err := request.RequestFromReader(conn)
	switch {
	case errors.Is(err, request.ErrNoData):
		if h.verbose {
			log.Info("peer closed without sending data")
		}
		return
	case errors.Is(err, request.ErrHeaderTooLarge):
		log.Warn("rejecting request", zap.Error(err))
		h.reply(log, response.NewWriter(conn), response.StatusBadRequest, "")
		return
	case err != nil:
		log.Warn("read request", zap.Error(err))
		return
	}

	rl := req.RequestLine
	if h.verbose {
		fields := []zap.Field{
			zap.String("method", rl.Method),
			zap.String("target", rl.RequestTarget),
			zap.String("version", rl.HttpVersion),
		}
		if hs, err := headers.FromBlock(req.Header); err == nil {
			fields = append(fields, zap.Strings("headers", hs.Names()))
		}
		log.Info("request", fields...)
	}

	w := response.NewWriter(conn)
	switch {
	case !request.SupportedVersion(rl.HttpVersion):
		h.reply(log, w, response.StatusBadRequest, "")
	case rl.Method != "GET":
		h.reply(log, w, response.StatusNotImplemented, rl.Method)
	default:
		if err := h.handleGet(log, w, rl.RequestTarget); err != nil {
			log.Warn("get", zap.String("target", rl.RequestTarget), zap.Error(err))
		}
	}
}

func (h *ConnHandler) reply(log *zap.Logger, w *response.Writer, code response.StatusCode, arg string) {
	if err := w.WriteStatus(code, arg); err != nil {
		log.Warn("write response", zap.Int("status", int(code)), zap.Error(err))
	}
}

// handleGet resolves target to a module and lets it write the body.
// The handle is released whatever Generate does, panics included.
func (h *ConnHandler) handleGet(log *zap.Logger, w *response.Writer, target string) error {
	name, ok := moduleName(target)
	if !ok {
		if h.verbose {
			log.Info("module not found", zap.String("target", target))
		}
		return w.WriteStatus(response.StatusNotFound, target)
	}

	handle, err := h.registry.Resolve(name)
	if err != nil {
		if !errors.Is(err, module.ErrNotFound) {
			log.Warn("resolve module", zap.String("module", name), zap.Error(err))
		} else if h.verbose {
			log.Info("module not found", zap.String("module", name), zap.Error(err))
		}
		return w.WriteStatus(response.StatusNotFound, target)
	}
	defer h.registry.Release(handle)

	if err := w.WriteStatus(response.StatusOK, ""); err != nil {
		return err
	}
	if h.verbose {
		log.Info("dispatching to module", zap.String("module", name))
	}
	if err := handle.Generate(w); err != nil {
		return fmt.Errorf("module %s: %w", name, err)
	}
	return nil
}

// moduleName accepts only "/<name>" with no further slash.
func moduleName(target string) (string, bool) {
	if !strings.HasPrefix(target, "/") || strings.Contains(target[1:], "/") {
		return "", false
	}
	return target[1:], true
}
