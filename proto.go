package isecmobile

import "fmt"

const (
	frameStart     = 0xe9
	frameSeparator = 0x21

	passwordLen = 6

	// Every frame byte that is not command/args: length, start marker, the
	// two separators, the password and the checksum.
	frameOverhead = 11

	// The length byte counts the whole frame, so a frame can never exceed it.
	maxFrameLen = 0xff
)

// encodeFrame assembles a complete wire frame:
//
//	[Length][0xe9][0x21][Password:6][Command][Args...][0x21][Checksum]
//
// The length byte counts every frame byte including itself and the checksum.
// The checksum XORs every byte before it, the length byte included; getting
// that range wrong produces frames the panel silently rejects.
func encodeFrame(password string, command []byte) ([]byte, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if len(command) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrEncoding)
	}
	total := frameOverhead + len(command)
	if total > maxFrameLen {
		return nil, fmt.Errorf("%w: command does not fit a frame", ErrEncoding)
	}
	frame := make([]byte, 0, total)
	frame = append(frame, byte(total), frameStart, frameSeparator)
	frame = append(frame, password...)
	frame = append(frame, command...)
	frame = append(frame, frameSeparator)
	frame = append(frame, checksum(frame))
	return frame, nil
}

// decodeFrame validates a complete frame and returns its command byte and
// payload. A frame that fails any check is rejected whole.
func decodeFrame(frame []byte) (byte, []byte, error) {
	if len(frame) < frameOverhead+1 {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrMalformedFrame, len(frame))
	}
	if int(frame[0]) != len(frame) {
		return 0, nil, fmt.Errorf(
			"%w: length byte says %d, have %d bytes",
			ErrMalformedFrame, frame[0], len(frame),
		)
	}
	if frame[1] != frameStart || frame[2] != frameSeparator {
		return 0, nil, fmt.Errorf("%w: bad leading markers", ErrMalformedFrame)
	}
	if frame[len(frame)-2] != frameSeparator {
		return 0, nil, fmt.Errorf("%w: bad trailing marker", ErrMalformedFrame)
	}
	if want := checksum(frame[:len(frame)-1]); want != frame[len(frame)-1] {
		return 0, nil, fmt.Errorf(
			"%w: want 0x%02x, got 0x%02x",
			ErrChecksumMismatch, want, frame[len(frame)-1],
		)
	}
	return frame[3+passwordLen], frame[3+passwordLen+1 : len(frame)-2], nil
}

func checksum(buf []byte) byte {
	var check byte
	for _, n := range buf {
		check ^= n
	}
	return check
}

func validatePassword(pwd string) error {
	if len(pwd) != passwordLen {
		return fmt.Errorf("%w: password must have %d digits", ErrEncoding, passwordLen)
	}
	for _, r := range pwd {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: password must be numeric", ErrEncoding)
		}
	}
	return nil
}
