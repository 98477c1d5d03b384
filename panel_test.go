package isecmobile

import (
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakePanel is a scripted AMT panel. Each accepted connection reads whole
// frames off the socket and answers with whatever the configured responder
// returns.
type fakePanel struct {
	ln net.Listener

	mu          sync.Mutex
	frames      [][]byte
	dials       int
	rejectDials int // close this many connections right after accept
	dropFrames  int // close the connection instead of answering, this many times
	muteFrames  int // swallow this many frames without answering
	delay       time.Duration
	respond     func(cmd byte, payload []byte) []byte
}

func newFakePanel(t *testing.T) *fakePanel {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	p := &fakePanel{ln: ln}
	p.respond = func(cmd byte, _ []byte) []byte {
		return respFrame(cmd, 0xfe)
	}
	go p.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return p
}

// respFrame builds a response frame carrying the given command byte and
// payload. Responses share the request envelope.
func respFrame(cmd byte, payload ...byte) []byte {
	frame, err := encodeFrame("123456", append([]byte{cmd}, payload...))
	if err != nil {
		panic(err)
	}
	return frame
}

func statusRespFrame(payload []byte) []byte {
	return respFrame(opStatus, payload...)
}

func (p *fakePanel) hostPort() (string, string) {
	host, port, _ := net.SplitHostPort(p.ln.Addr().String())
	return host, port
}

func (p *fakePanel) serve() {
	for {
		conn, err := p.ln.Accept()
		if err != nil {
			return
		}
		p.mu.Lock()
		p.dials++
		reject := p.rejectDials > 0
		if reject {
			p.rejectDials--
		}
		p.mu.Unlock()
		if reject {
			_ = conn.Close()
			continue
		}
		go p.handle(conn)
	}
}

func (p *fakePanel) handle(conn net.Conn) {
	defer conn.Close()
	for {
		head := make([]byte, 1)
		if _, err := io.ReadFull(conn, head); err != nil {
			return
		}
		rest := make([]byte, int(head[0])-1)
		if _, err := io.ReadFull(conn, rest); err != nil {
			return
		}
		frame := append(head, rest...)
		cmd, payload, err := decodeFrame(frame)
		if err != nil {
			return
		}

		p.mu.Lock()
		p.frames = append(p.frames, frame)
		drop := p.dropFrames > 0
		if drop {
			p.dropFrames--
		}
		mute := !drop && p.muteFrames > 0
		if mute {
			p.muteFrames--
		}
		delay := p.delay
		respond := p.respond
		p.mu.Unlock()

		if drop {
			return
		}
		if mute {
			continue
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		if _, err := conn.Write(respond(cmd, payload)); err != nil {
			return
		}
	}
}

func (p *fakePanel) setResponder(fn func(cmd byte, payload []byte) []byte) {
	p.mu.Lock()
	p.respond = fn
	p.mu.Unlock()
}

func (p *fakePanel) dialCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dials
}

func (p *fakePanel) frameCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}

func (p *fakePanel) recordedFrames() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte{}, p.frames...)
}
