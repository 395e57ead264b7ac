// Package server runs the TCP accept loop. Each accepted connection gets one
// bounded read, one dispatched action and one response write, then it is
// closed. With Workers <= 1 connections are served inline by the accept loop,
// so a slow peer holds up everyone behind it.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ignite/users-server/internal/api"
	"github.com/ignite/users-server/internal/metrics"
	"github.com/ignite/users-server/internal/pkg/logger"
	"github.com/ignite/users-server/internal/rawhttp"
)

// DefaultAddr is where the server listens unless configured otherwise.
const DefaultAddr = "0.0.0.0:8081"

const maxAcceptDelay = time.Second

// Dispatcher maps a parsed request to a response.
type Dispatcher interface {
	Dispatch(ctx context.Context, req rawhttp.Request) (api.Route, rawhttp.Response)
}

// Options configures a Server. Zero timeouts mean no deadline.
type Options struct {
	Addr string
	// Workers bounds how many connections are served at once. 0 or 1 keeps
	// the strictly sequential accept-and-serve loop.
	Workers        int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// Server is the raw TCP front end.
type Server struct {
	opts       Options
	dispatcher Dispatcher
}

// New creates a server that hands every request to d.
func New(d Dispatcher, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	return &Server{opts: opts, dispatcher: d}
}

// ListenAndServe binds the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then closes ln, waits
// for in-flight connections and returns nil. A failed accept is logged and
// the loop keeps going; only a listener closed from outside ends it early.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	logger.Info("server listening on port "+port, "addr", ln.Addr().String(), "workers", s.opts.Workers)

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var g errgroup.Group
	if s.opts.Workers > 1 {
		g.SetLimit(s.opts.Workers)
	}
	defer g.Wait()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accept: %w", err)
			}
			metrics.AcceptFailed()
			logger.Warn("unable to accept connection", "error", err)

			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}
		delay = 0

		if s.opts.Workers <= 1 {
			s.serveConn(ctx, conn)
			continue
		}
		g.Go(func() error {
			s.serveConn(ctx, conn)
			return nil
		})
	}
}

// serveConn runs one request/response exchange and closes conn.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	done := metrics.ConnectionAccepted()
	defer done()

	connID := uuid.NewString()
	remote := conn.RemoteAddr().String()

	if s.opts.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	}
	// Shutdown interrupts a peer that has not sent its request yet. Once the
	// request is read it is served to completion.
	unblock := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	buf := make([]byte, rawhttp.MaxRequestSize)
	n, err := conn.Read(buf)
	unblock()
	if err != nil && !errors.Is(err, io.EOF) {
		if ctx.Err() != nil {
			logger.Debug("dropping idle connection on shutdown", "conn", connID, "remote", remote)
			return
		}
		metrics.ReadFailed()
		logger.Error("unable to read stream", "conn", connID, "remote", remote, "error", err)
		return
	}

	start := time.Now()
	req := rawhttp.Parse(buf[:n])

	// In-flight requests finish even when the server is shutting down.
	reqCtx := context.WithoutCancel(ctx)
	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(reqCtx, s.opts.RequestTimeout)
		defer cancel()
	}
	route, resp := s.dispatcher.Dispatch(reqCtx, req)

	if s.opts.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
	if _, err := resp.WriteTo(conn); err != nil {
		logger.Error("unable to write response", "conn", connID, "remote", remote, "error", err)
	}

	metrics.RecordRequest(route.String(), resp.Code(), time.Since(start))
	logger.Debug("request served",
		"conn", connID,
		"remote", remote,
		"method", req.Method,
		"path", req.Path,
		"action", route,
		"status", resp.Code(),
	)
}
