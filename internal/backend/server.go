package backend

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"

	"go.uber.org/zap"

	internalerrors "github.com/Schera-ole/instrumental/internal/errors"
	models "github.com/Schera-ole/instrumental/internal/model"
	"github.com/Schera-ole/instrumental/internal/repository"
)

// NoticeLogger receives every accepted notice, for audit fan-out.
type NoticeLogger interface {
	Log(notice models.NoticeEvent)
}

// Server accepts protocol connections and ingests their lines.
//
// Each connection must complete the hello/authenticate handshake before any
// metric line is accepted. Replies are "ok" on success and "fail" on a
// rejected handshake step; metric lines after the handshake are
// fire-and-forget.
type Server struct {
	apiKey string
	store  repository.Repository
	logger *zap.SugaredLogger
	audit  NoticeLogger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
}

// NewServer creates an ingest server. An empty apiKey accepts any credential.
// audit may be nil.
func NewServer(apiKey string, store repository.Repository, logger *zap.SugaredLogger, audit NoticeLogger) *Server {

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{
		apiKey: apiKey,
		store:  store,
		logger: logger,
		audit:  audit,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Listen binds the given address and starts accepting connections. It
// returns once the listener is bound.
func (s *Server) Listen(addr string) error {

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(listener)
	s.logger.Infof("ingest listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) acceptLoop(listener net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.logger.Warnf("accept failed: %v", err)
			}
			return
		}
		if !s.track(conn) {
			conn.Close()
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handleConn(conn)
		}()
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	reader := bufio.NewReader(conn)
	authenticated := false
	helloSeen := false

	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		line, err := ParseLine(raw)
		if err != nil {
			s.logger.Infof("rejecting line from %s: %v", remote, err)
			if !authenticated {
				conn.Write([]byte("fail\n"))
				return
			}
			continue
		}

		switch line.Kind {
		case LineHello:
			helloSeen = true
			s.logger.Infof("hello from %s: version %s pid %s", remote, line.Hello["version"], line.Hello["pid"])
			conn.Write([]byte("ok\n"))

		case LineAuthenticate:
			if !helloSeen || (s.apiKey != "" && line.APIKey != s.apiKey) {
				s.logger.Infof("authentication rejected for %s", remote)
				conn.Write([]byte("fail\n"))
				return
			}
			authenticated = true
			conn.Write([]byte("ok\n"))

		case LineGauge:
			if !authenticated {
				s.logger.Infof("rejecting gauge from %s: %v", remote, internalerrors.ErrNotAuthenticated)
				conn.Write([]byte("fail\n"))
				return
			}
			if err := s.store.SetGauge(context.Background(), line.Gauge); err != nil {
				s.logger.Warnf("storing gauge %s: %v", line.Gauge.Name, err)
			}

		case LineNotice:
			if !authenticated {
				s.logger.Infof("rejecting notice from %s: %v", remote, internalerrors.ErrNotAuthenticated)
				conn.Write([]byte("fail\n"))
				return
			}
			if err := s.store.AddNotice(context.Background(), line.Notice); err != nil {
				s.logger.Warnf("storing notice: %v", err)
			}
			if s.audit != nil {
				s.audit.Log(line.Notice)
			}
		}
	}
}

// Close stops accepting, closes every open connection and waits for the
// handlers to drain.
func (s *Server) Close() error {

	s.mu.Lock()
	s.closed = true
	listener := s.listener
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	var err error
	if listener != nil {
		err = listener.Close()
	}
	s.wg.Wait()
	return err
}
