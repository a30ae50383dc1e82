package relay

import (
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/crazytosser25/goit-web-hw-04/internal/protocol"
)

// ErrPayloadTooLarge is returned when a submission's encoded form exceeds the
// receiver's datagram size bound. Oversized payloads are rejected up front
// rather than silently truncated on the wire.
var ErrPayloadTooLarge = errors.New("payload exceeds datagram size bound")

// Client sends submissions to a fixed peer address, one datagram per call.
type Client struct {
	peerAddr   string
	maxPayload int
	logger     *slog.Logger
}

// NewClient creates a datagram client targeting peerAddr. maxPayload is the
// receiver's buffer size; encoded submissions larger than that are rejected.
func NewClient(peerAddr string, maxPayload int, logger *slog.Logger) *Client {
	return &Client{
		peerAddr:   peerAddr,
		maxPayload: maxPayload,
		logger:     logger,
	}
}

// Send encodes the submission and transmits it as a single UDP datagram,
// returning the number of payload bytes sent. A transient socket is opened
// per call and closed before returning. Errors report a failed best-effort
// send; the caller decides whether that matters.
func (c *Client) Send(s protocol.Submission) (int, error) {
	data, err := protocol.Encode(s)
	if err != nil {
		return 0, err
	}

	if len(data) > c.maxPayload {
		return 0, fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(data), c.maxPayload)
	}

	conn, err := net.Dial("udp", c.peerAddr)
	if err != nil {
		return 0, fmt.Errorf("failed to open datagram socket to %s: %w", c.peerAddr, err)
	}
	defer conn.Close()

	if _, err := conn.Write(data); err != nil {
		return 0, fmt.Errorf("failed to send datagram to %s: %w", c.peerAddr, err)
	}

	c.logger.Debug("Datagram sent",
		slog.String("peer_addr", c.peerAddr),
		slog.Int("payload_size", len(data)),
	)

	return len(data), nil
}
