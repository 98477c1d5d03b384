package isecmobile

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/caarlos0/sync/cio"
	logp "github.com/charmbracelet/log"
	"github.com/j-keck/arping"
)

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "isecmobile",
})

// DefaultPort is the TCP port AMT panels listen on.
const DefaultPort = "9015"

// DefaultTimeout bounds dials and response reads.
const DefaultTimeout = 5 * time.Second

// Client owns a single TCP connection to the panel and runs strict
// request/response round-trips over it. The protocol has no request IDs, so
// only one frame may be outstanding per connection; concurrent callers must
// be serialized upstream (see Supervisor).
type Client struct {
	conn    net.Conn
	timeout time.Duration
}

// Dial connects to the panel.
func Dial(host, port string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), timeout)
	if err != nil {
		return nil, fmt.Errorf("could not connect: %w", err)
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

// MacAddress resolves the panel's MAC address via ARP. Needs the
// cap_net_raw capability.
func MacAddress(ip string) (string, error) {
	hw, _, err := arping.Ping(net.ParseIP(ip))
	if err != nil {
		return "", fmt.Errorf("could not get the mac address: %w", err)
	}
	return hw.String(), nil
}

// Send performs one command round-trip and returns the decoded response
// payload. NACK replies come back as their typed errors.
func (c *Client) Send(cmd Command) ([]byte, error) {
	frame, err := encodeFrame(cmd.Password, cmd.Code)
	if err != nil {
		return nil, err
	}
	log.Debug("send", "cmd", fmt.Sprintf("%#02x", cmd.Code[0]), "len", len(frame))
	resp, err := c.roundTrip(frame)
	if err != nil {
		return nil, err
	}
	_, payload, err := decodeFrame(resp)
	if err != nil {
		return nil, err
	}
	if code, ok := isNack(payload); ok {
		return nil, nackError(code)
	}
	return payload, nil
}

// Status queries the panel and decodes the reply into a fresh snapshot.
func (c *Client) Status(cmds Commands) (Snapshot, error) {
	payload, err := c.Send(cmds.Status())
	if err != nil {
		return Snapshot{}, fmt.Errorf("could not gather status: %w", err)
	}
	return decodeStatus(payload)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// roundTrip writes one frame and reads exactly one response frame. There is
// no terminator on the wire: the response declares its own size in the
// length byte, so read that first and then exactly the rest.
func (c *Client) roundTrip(frame []byte) ([]byte, error) {
	if _, err := c.conn.Write(frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}
	head := make([]byte, 1)
	if _, err := io.ReadFull(cio.TimeoutReader(c.conn, c.timeout), head); err != nil {
		return nil, readError(err)
	}
	if int(head[0]) < frameOverhead+1 {
		return nil, fmt.Errorf("%w: length byte says %d", ErrMalformedFrame, head[0])
	}
	rest := make([]byte, int(head[0])-1)
	if _, err := io.ReadFull(cio.TimeoutReader(c.conn, c.timeout), rest); err != nil {
		return nil, readError(err)
	}
	return append(head, rest...), nil
}

func readError(err error) error {
	var nerr net.Error
	if errors.Is(err, os.ErrDeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrResponseTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrConnectionLost, err)
}
