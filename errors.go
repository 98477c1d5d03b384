package isecmobile

import (
	"errors"
	"fmt"
)

// Local validation failures. Nothing that fails with these is ever written
// to the wire.
var (
	ErrEncoding        = errors.New("could not encode frame")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Protocol-level corruption. Frames failing these checks are rejected whole,
// never partially applied, and never retried blindly.
var (
	ErrMalformedFrame   = errors.New("malformed frame")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Transport failures. The supervisor reconnects and retries exactly once
// before these reach the caller.
var (
	ErrResponseTimeout = errors.New("response timeout")
	ErrConnectionLost  = errors.New("connection lost")
)

// Status decode failures. Non-retryable: they indicate a configuration or
// firmware mismatch.
var (
	ErrUnsupportedModel = errors.New("unsupported panel model")
	ErrTruncatedPayload = errors.New("truncated status payload")
)

// Panel rejections (NACK replies).
var (
	ErrInvalidPassword = errors.New("panel rejected the password")
	ErrOpenZones       = errors.New("panel refused to arm: open zones")
	ErrCommandRejected = errors.New("panel rejected the command")
)

// Supervisor lifecycle.
var (
	ErrClosed  = errors.New("supervisor is closed")
	ErrFaulted = errors.New("session is faulted, reconfigure the password")
)

// Panels answer rejected commands with a single status byte in the 0xe0-0xef
// range instead of a reply payload.
const (
	nackFirst = 0xe0
	nackLast  = 0xef

	nackWrongPassword = 0xe1
	nackOpenZones     = 0xe4
)

func isNack(payload []byte) (byte, bool) {
	if len(payload) == 1 && payload[0] >= nackFirst && payload[0] <= nackLast {
		return payload[0], true
	}
	return 0, false
}

func nackError(code byte) error {
	switch code {
	case nackWrongPassword:
		return ErrInvalidPassword
	case nackOpenZones:
		return ErrOpenZones
	default:
		return fmt.Errorf("%w: 0x%02x", ErrCommandRejected, code)
	}
}
