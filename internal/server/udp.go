package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/crazytosser25/goit-web-hw-04/internal/config"
	"github.com/crazytosser25/goit-web-hw-04/internal/metrics"
	"github.com/crazytosser25/goit-web-hw-04/internal/protocol"
	"github.com/crazytosser25/goit-web-hw-04/internal/storage"
)

// UDPServer receives submission datagrams and persists them to the log file.
// Datagrams are handled in-line with the receive loop, so the storage writer
// only ever sees one caller at a time.
type UDPServer struct {
	conn    *net.UDPConn
	config  *config.UDPConfig
	logger  *slog.Logger
	writer  *storage.Writer
	metrics *metrics.Metrics

	// Concurrency management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Counters
	datagramsReceived uint64
	datagramsStored   uint64
	decodeErrors      uint64
	appendErrors      uint64
	mu                sync.RWMutex
}

// NewUDPServer creates a new datagram server instance
func NewUDPServer(cfg *config.UDPConfig, logger *slog.Logger, writer *storage.Writer, m *metrics.Metrics) *UDPServer {
	ctx, cancel := context.WithCancel(context.Background())

	return &UDPServer{
		config:  cfg,
		logger:  logger,
		writer:  writer,
		metrics: m,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start binds the socket and begins the receive loop. A bind failure is
// fatal: the server never starts and the error goes back to the caller.
func (s *UDPServer) Start() error {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", s.config.BindAddress, s.config.Port))
	if err != nil {
		s.cancel()
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		s.cancel()
		return fmt.Errorf("failed to listen on UDP: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.logger.Info("UDP server started",
		slog.String("address", conn.LocalAddr().String()),
		slog.Int("buffer_size", s.config.BufferSize),
	)

	s.wg.Add(1)
	go s.receiveLoop()

	return nil
}

// Stop gracefully stops the UDP server
func (s *UDPServer) Stop() error {
	s.logger.Info("Stopping UDP server...")

	// Cancel context to signal shutdown
	s.cancel()

	// Wait for the receive loop to observe cancellation and return. The loop
	// polls with a read deadline, so this completes within one poll interval.
	s.wg.Wait()

	// Close UDP connection
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			s.logger.Warn("Error closing UDP connection", slog.String("error", err.Error()))
		}
	}

	s.mu.RLock()
	received := s.datagramsReceived
	stored := s.datagramsStored
	decodeErrors := s.decodeErrors
	appendErrors := s.appendErrors
	s.mu.RUnlock()

	s.logger.Info("UDP server stopped",
		slog.Uint64("datagrams_received", received),
		slog.Uint64("datagrams_stored", stored),
		slog.Uint64("decode_errors", decodeErrors),
		slog.Uint64("append_errors", appendErrors),
	)

	return nil
}

// Addr returns the bound socket address, or nil before Start.
func (s *UDPServer) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Running reports whether the server has bound its socket and has not been
// stopped or failed.
func (s *UDPServer) Running() bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn != nil
}

// receiveLoop is the main datagram receiving loop
func (s *UDPServer) receiveLoop() {
	defer s.wg.Done()
	// A loop that exits for any reason leaves the server not running.
	defer s.cancel()

	buffer := make([]byte, s.config.BufferSize)
	pollInterval := s.config.GetReadTimeoutDuration()

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Receive loop stopping due to context cancellation")
			return
		default:
			// Continue to receive datagrams
		}

		// Set read deadline to check for context cancellation periodically
		if err := s.conn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			s.logger.Error("Failed to set read deadline", slog.String("error", err.Error()))
			return
		}

		n, remoteAddr, err := s.conn.ReadFromUDP(buffer)
		if err != nil {
			// A timeout is the expected way to re-check cancellation
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}

			select {
			case <-s.ctx.Done():
				return
			default:
				// Any other socket error is fatal for this listener
				s.logger.Error("Failed to read UDP datagram", slog.String("error", err.Error()))
				return
			}
		}

		s.mu.Lock()
		s.datagramsReceived++
		s.mu.Unlock()
		s.metrics.RecordDatagramReceived()

		s.logger.Debug("Datagram received",
			slog.String("remote_addr", remoteAddr.String()),
			slog.Int("size", n),
		)

		// Handled in-line: persistence latency gates the next receive, which
		// is what keeps log access single-writer.
		s.handleDatagram(buffer[:n], remoteAddr)
	}
}

// handleDatagram decodes one datagram and appends it to the log. A datagram
// that fails to decode or persist is logged and skipped; the loop survives.
func (s *UDPServer) handleDatagram(data []byte, remoteAddr *net.UDPAddr) {
	submission, err := protocol.Decode(data)
	if err != nil {
		s.mu.Lock()
		s.decodeErrors++
		s.mu.Unlock()
		s.metrics.RecordDecodeError()

		s.logger.Error("Failed to decode datagram",
			slog.String("remote_addr", remoteAddr.String()),
			slog.Int("size", len(data)),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.writer.Append(time.Now(), submission); err != nil {
		s.mu.Lock()
		s.appendErrors++
		s.mu.Unlock()
		s.metrics.RecordAppendError()

		s.logger.Error("Failed to append submission to log",
			slog.String("remote_addr", remoteAddr.String()),
			slog.String("path", s.writer.Path()),
			slog.String("error", err.Error()),
		)
		return
	}

	s.mu.Lock()
	s.datagramsStored++
	s.mu.Unlock()
	s.metrics.RecordDatagramStored()

	s.logger.Debug("Submission stored",
		slog.String("remote_addr", remoteAddr.String()),
		slog.Int("fields", len(submission)),
	)
}

// Statistics returns current server counters
func (s *UDPServer) Statistics() ServerStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ServerStatistics{
		DatagramsReceived: s.datagramsReceived,
		DatagramsStored:   s.datagramsStored,
		DecodeErrors:      s.decodeErrors,
		AppendErrors:      s.appendErrors,
	}
}

// ServerStatistics represents datagram server counters
type ServerStatistics struct {
	DatagramsReceived uint64 `json:"datagrams_received"`
	DatagramsStored   uint64 `json:"datagrams_stored"`
	DecodeErrors      uint64 `json:"decode_errors"`
	AppendErrors      uint64 `json:"append_errors"`
}
