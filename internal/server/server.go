package server

import (
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/indigo-web/microserve/config"
	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/internal/metrics"
	"github.com/indigo-web/microserve/internal/protocol/http1"
	"github.com/indigo-web/microserve/internal/timer"
	"github.com/indigo-web/microserve/router"
	"github.com/indigo-web/microserve/transport"
	"github.com/pkg/errors"
)

type Logger interface {
	Printf(format string, v ...any)
}

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// Server accepts TCP connections and serves exactly one request on each of them.
type Server struct {
	cfg        *config.Config
	router     router.Router
	logger     Logger
	subscribed []string
	metrics    *metrics.Metrics
	l          listener
	wg         *sync.WaitGroup
	stop       *atomic.Bool
}

func New(cfg *config.Config, r router.Router, logger Logger, subscribed ...string) *Server {
	if logger == nil {
		logger = log.Default()
	}

	return &Server{
		cfg:        cfg,
		router:     r,
		logger:     logger,
		subscribed: subscribed,
		wg:         new(sync.WaitGroup),
		stop:       new(atomic.Bool),
	}
}

// WithMetrics enables instrumentation of connections, requests and uploads.
func (s *Server) WithMetrics(m *metrics.Metrics) *Server {
	s.metrics = m
	s.router = m.Instrument(s.router)
	return s
}

func (s *Server) Bind(addr string) error {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", addr)
	}

	s.l, err = net.ListenTCP("tcp", tcpaddr)
	return errors.Wrapf(err, "bind %s", addr)
}

// Addr returns the address the server is bound to.
func (s *Server) Addr() net.Addr {
	return s.l.Addr()
}

// Listen runs the accept loop until Stop is called. The listener deadline makes the
// Accept return periodically, so the stop flag is checked at least once per
// AcceptLoopInterruptPeriod.
func (s *Server) Listen() error {
	period := s.cfg.NET.AcceptLoopInterruptPeriod
	// the clock must lag behind by less than the period, otherwise the deadline may be
	// already exceeded by the moment it's set
	clock := timer.Start(period / 2)
	defer clock.Stop()

	for !s.stop.Load() {
		err := s.l.SetDeadline(clock.Now().Add(period))
		if err != nil {
			return err
		}

		conn, err := s.l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			return err
		}

		s.wg.Add(1)
		go func(conn net.Conn) {
			s.serve(conn)
			s.wg.Done()
		}(conn)
	}

	return nil
}

func (s *Server) serve(netconn net.Conn) {
	id := uuid.New()
	start := time.Now()
	s.metrics.Connection()
	conn := transport.NewConn(netconn, make([]byte, s.cfg.NET.ReadBufferSize), s.cfg.Body.PollInterval)
	defer func() {
		if n := conn.Discard(s.cfg.NET.DiscardLimit); n > 0 && s.cfg.Debug {
			s.logger.Printf("conn %s: discarded %d unread bytes", id, n)
		}

		_ = conn.Close()
	}()

	suit, err := http1.New(s.cfg, s.router, s.logger, s.subscribed...)
	if err != nil {
		s.logger.Printf("conn %s: %v", id, err)
		return
	}

	err = suit.ServeOnce(conn)
	request := suit.Request()
	s.metrics.Request(request.Method, err, time.Since(start))

	switch {
	case errors.Is(err, status.ErrCloseConnection):
		if s.cfg.Debug {
			s.logger.Printf("conn %s: %s sent nothing", id, conn.Remote())
		}
	case err != nil:
		s.logger.Printf("conn %s: %s %s %s: %v", id, conn.Remote(), request.Method, request.Path, err)
	case s.cfg.Debug:
		s.logger.Printf("conn %s: %s %s %s", id, conn.Remote(), request.Method, request.Path)
	}
}

// Stop makes the accept loop return at the next interrupt.
func (s *Server) Stop() {
	s.stop.Store(true)
}

func (s *Server) Close() error {
	return s.l.Close()
}

// Wait blocks until every connection being served is done.
func (s *Server) Wait() {
	s.wg.Wait()
}
