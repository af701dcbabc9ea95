// Package server runs the TCP accept loop: one goroutine per
// connection, each pumping read_cmd -> dispatch -> write_resp
// sequentially against a shared Dispatcher until the client
// disconnects or the transport desyncs.
package server

import (
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/memkv/memkv/pkg/protocol"
)

// Server accepts TCP connections and serves the memkv wire protocol
// over each one, bounded by a connection-count semaphore.
type Server struct {
	addr           string
	maxConnections int
	dispatcher     *Dispatcher
	log            zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
	closed   bool
}

// New builds a Server listening on addr, dispatching commands to d.
func New(addr string, maxConnections int, d *Dispatcher, log zerolog.Logger) *Server {
	return &Server{
		addr:           addr,
		maxConnections: maxConnections,
		dispatcher:     d,
		log:            log,
	}
}

// Serve listens on the configured address and blocks accepting
// connections until Stop is called; it then returns nil once every
// open connection has ended.
func (s *Server) Serve() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.log.Info().Str("addr", s.addr).Msg("listening")

	sem := make(chan struct{}, s.maxConnections)

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				s.wg.Wait()
				return nil
			}
			s.log.Warn().Err(err).Msg("accept failed")
			time.Sleep(AcceptBackoffOnAcceptError)
			continue
		}

		tuneConn(conn)

		select {
		case sem <- struct{}{}:
		default:
			// At capacity: refuse rather than queue indefinitely.
			conn.Close()
			continue
		}

		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			defer func() { <-sem }()
			s.handleConnection(c)
		}(conn)
	}
}

// Stop closes the listener, causing Serve's Accept loop to stop. It
// neither closes open connections nor waits for them: each one ends
// only when its client disconnects or its transport hits an error.
func (s *Server) Stop() error {
	s.mu.Lock()
	s.closed = true
	ln := s.listener
	s.mu.Unlock()

	if ln == nil {
		return nil
	}
	return ln.Close()
}

func tuneConn(conn net.Conn) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	tcpConn.SetLinger(0)
	tcpConn.SetNoDelay(true)
	tcpConn.SetKeepAlive(true)
	tcpConn.SetKeepAlivePeriod(TCPKeepAliveInterval)
	tcpConn.SetReadBuffer(ReadBufferSize)
	tcpConn.SetWriteBuffer(ReadBufferSize)
}

// handleConnection pumps commands off conn until the client
// disconnects or the transport hits an unrecoverable error.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	s.dispatcher.metrics.ObserveConnection()
	t := protocol.NewTransport(conn)

	for {
		// Re-derived every command rather than once at connect time, so a
		// key_maxlen/value_maxlen raised by a hot-reload mid-connection
		// takes effect on this already-open connection too.
		t.SetMaxCmdLineLen(int(s.dispatcher.KeyMaxlen()) + setHeaderOverhead)
		t.SetMaxPayloadLen(int(s.dispatcher.ValueMaxlen()))

		cmd, err := t.ReadCmd()
		if err != nil {
			if protocol.IsInvalidCmd(err) {
				_ = t.WriteResp(protocol.RespError{})
			}
			return
		}

		resp := s.dispatcher.Dispatch(cmd)
		if err := t.WriteResp(resp); err != nil {
			return
		}
	}
}
