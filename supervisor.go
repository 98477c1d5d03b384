package isecmobile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// SessionState tracks the supervisor's connection session.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateConnected
	StateFaulted
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Consecutive password rejections before the session faults.
const authFaultThreshold = 3

// Supervisor owns the connection session and serializes every panel
// operation through one execution slot. Requests queue FIFO in arrival
// order; at most one frame is ever in flight, and a request either
// completes or surfaces a typed error once the retry policy is exhausted.
//
// A lost connection or timed-out response gets exactly one
// reconnect-and-retry. Repeated password rejections fault the session,
// which stays faulted until SetPassword.
type Supervisor struct {
	cfg Config

	requests   chan *request
	quit       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
	newBackoff func() backoff.BackOff

	mu        sync.Mutex
	cmds      Commands
	state     SessionState
	last      *Snapshot
	authFails int

	cli *Client // loop goroutine only
}

type request struct {
	ctx  context.Context
	cmd  Command
	resp chan result
}

type result struct {
	payload []byte
	err     error
}

// Supervise validates the configuration and starts the supervisor's
// execution loop. No connection is made until the first request.
func Supervise(cfg Config) (*Supervisor, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Supervisor{
		cfg:        cfg,
		cmds:       cfg.commands(),
		requests:   make(chan *request),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		newBackoff: defaultBackoff,
	}
	go s.loop()
	return s, nil
}

func defaultBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = time.Second * 5
	bo.MaxElapsedTime = time.Minute
	return bo
}

// State returns the current session state.
func (s *Supervisor) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastSnapshot returns the most recent successfully decoded snapshot, if
// any poll has succeeded yet.
func (s *Supervisor) LastSnapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Snapshot{}, false
	}
	return *s.last, true
}

// Status polls the panel and returns a fresh snapshot.
func (s *Supervisor) Status(ctx context.Context) (Snapshot, error) {
	payload, err := s.execute(ctx, s.commands().Status())
	if err != nil {
		return Snapshot{}, err
	}
	snap, err := decodeStatus(payload)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	s.last = &snap
	s.mu.Unlock()
	return snap, nil
}

// Arm arms the whole panel.
func (s *Supervisor) Arm(ctx context.Context) error {
	return s.run(ctx, s.commands().Arm())
}

// Disarm disarms the whole panel.
func (s *Supervisor) Disarm(ctx context.Context) error {
	return s.run(ctx, s.commands().Disarm())
}

// ArmStay arms in stay mode.
func (s *Supervisor) ArmStay(ctx context.Context) error {
	return s.run(ctx, s.commands().ArmStay())
}

// ArmPartition arms one partition (letter A-D).
func (s *Supervisor) ArmPartition(ctx context.Context, partition string) error {
	cmd, err := s.commands().ArmPartition(partition)
	if err != nil {
		return err
	}
	return s.run(ctx, cmd)
}

// DisarmPartition disarms one partition (letter A-D).
func (s *Supervisor) DisarmPartition(ctx context.Context, partition string) error {
	cmd, err := s.commands().DisarmPartition(partition)
	if err != nil {
		return err
	}
	return s.run(ctx, cmd)
}

// SetPGM switches a programmable output on or off.
func (s *Supervisor) SetPGM(ctx context.Context, number int, activate bool) error {
	cmd, err := s.commands().PGM(number, activate)
	if err != nil {
		return err
	}
	return s.run(ctx, cmd)
}

// BypassOpenZones polls the panel and bypasses every zone currently open.
func (s *Supervisor) BypassOpenZones(ctx context.Context) error {
	snap, err := s.Status(ctx)
	if err != nil {
		return err
	}
	cmd, err := s.commands().BypassOpenZones(snap)
	if err != nil {
		return err
	}
	return s.run(ctx, cmd)
}

// SetPassword replaces the master password and clears a faulted session.
func (s *Supervisor) SetPassword(pwd string) error {
	if err := validatePassword(pwd); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.MasterPassword = pwd
	s.cmds.Master = pwd
	s.authFails = 0
	if s.state == StateFaulted {
		s.state = StateDisconnected
	}
	return nil
}

// Close stops the execution loop and drops the connection. Queued callers
// get ErrClosed.
func (s *Supervisor) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	<-s.done
	return nil
}

func (s *Supervisor) commands() Commands {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmds
}

func (s *Supervisor) run(ctx context.Context, cmd Command) error {
	_, err := s.execute(ctx, cmd)
	return err
}

// execute queues one command round-trip. Cancelling ctx removes the request
// only while it is still queued; once its frame is being written the
// round-trip runs to completion so leftover response bytes cannot corrupt
// the next read, and the result is discarded.
func (s *Supervisor) execute(ctx context.Context, cmd Command) ([]byte, error) {
	req := &request{ctx: ctx, cmd: cmd, resp: make(chan result, 1)}
	select {
	case s.requests <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.quit:
		return nil, ErrClosed
	}
	select {
	case res := <-req.resp:
		return res.payload, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Supervisor) loop() {
	defer close(s.done)
	for {
		select {
		case req := <-s.requests:
			if err := req.ctx.Err(); err != nil {
				req.resp <- result{err: err}
				continue
			}
			payload, err := s.process(req.ctx, req.cmd)
			req.resp <- result{payload: payload, err: err}
		case <-s.quit:
			s.dropConn()
			return
		}
	}
}

// process runs one round-trip, connecting first if needed.
func (s *Supervisor) process(ctx context.Context, cmd Command) ([]byte, error) {
	if s.State() == StateFaulted {
		return nil, ErrFaulted
	}
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	payload, err := s.cli.Send(cmd)
	if err == nil {
		s.resetAuthFails()
		return payload, nil
	}
	if errors.Is(err, ErrInvalidPassword) {
		return nil, s.noteAuthFailure(err)
	}
	if corruptsStream(err) {
		// Leftover response bytes would be misread as the next reply, so
		// the socket is no longer trustworthy. Corruption is never retried
		// blindly; the next request starts on a fresh connection.
		log.Warn("corrupt response, dropping connection", "err", err)
		s.dropConn()
		s.setState(StateDisconnected)
		return nil, err
	}
	if !errors.Is(err, ErrConnectionLost) && !errors.Is(err, ErrResponseTimeout) {
		return nil, err
	}

	// One immediate reconnect-and-retry, then the failure surfaces.
	log.Warn("round-trip failed, reconnecting", "err", err)
	s.dropConn()
	s.setState(StateDisconnected)
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	payload, err = s.cli.Send(cmd)
	if err == nil {
		s.resetAuthFails()
		return payload, nil
	}
	if errors.Is(err, ErrInvalidPassword) {
		return nil, s.noteAuthFailure(err)
	}
	if corruptsStream(err) ||
		errors.Is(err, ErrConnectionLost) ||
		errors.Is(err, ErrResponseTimeout) {
		s.dropConn()
		s.setState(StateDisconnected)
	}
	return nil, err
}

// corruptsStream reports whether err means the socket's read position can no
// longer be trusted: a rejected frame may leave unread response bytes behind.
func corruptsStream(err error) bool {
	return errors.Is(err, ErrMalformedFrame) || errors.Is(err, ErrChecksumMismatch)
}

// connect dials the panel under a bounded exponential backoff so a dead or
// flapping link never turns into a tight reconnect loop.
func (s *Supervisor) connect(ctx context.Context) error {
	if s.cli != nil {
		return nil
	}
	s.setState(StateConnecting)
	err := backoff.RetryNotify(func() error {
		cli, err := Dial(s.cfg.Host, s.cfg.Port, s.cfg.Timeout)
		if err != nil {
			return err
		}
		s.cli = cli
		return nil
	}, backoff.WithContext(s.newBackoff(), ctx), func(err error, next time.Duration) {
		log.Warn("could not connect", "err", err, "retry_in", next)
	})
	if err != nil {
		s.setState(StateDisconnected)
		return fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}
	s.setState(StateConnected)
	return nil
}

func (s *Supervisor) dropConn() {
	if s.cli != nil {
		_ = s.cli.Close()
		s.cli = nil
	}
}

func (s *Supervisor) setState(state SessionState) {
	s.mu.Lock()
	if s.state != state {
		log.Debug("session state", "from", s.state, "to", state)
		s.state = state
	}
	s.mu.Unlock()
}

func (s *Supervisor) resetAuthFails() {
	s.mu.Lock()
	s.authFails = 0
	s.mu.Unlock()
}

// noteAuthFailure counts consecutive password rejections. Past the
// threshold the session faults: the panel is refusing our credentials and
// hammering it with more attempts can lock the account on the keypad.
func (s *Supervisor) noteAuthFailure(err error) error {
	s.mu.Lock()
	s.authFails++
	fails := s.authFails
	s.mu.Unlock()
	if fails >= authFaultThreshold {
		log.Error("password rejected repeatedly, faulting session", "attempts", fails)
		s.setState(StateFaulted)
		s.dropConn()
		return fmt.Errorf("%w: %v", ErrFaulted, err)
	}
	return err
}
