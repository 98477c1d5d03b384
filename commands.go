package isecmobile

import "fmt"

// Protocol opcodes. They are ASCII, same characters the panel keypads use.
const (
	opStatus = 0x5a // 'Z'
	opArm    = 0x41 // 'A'
	opDisarm = 0x44 // 'D'
	opBypass = 0x42 // 'B'
	opPGM    = 0x50 // 'P', followed by 'L' (on) or 'D' (off)

	argStay   = 0x50 // 'P', arm modifier
	argPGMOn  = 0x4c // 'L'
	argPGMOff = 0x44 // 'D'
)

// Capacity shared by the whole supported panel family.
const (
	MaxPartitions = 4
	MaxPGMs       = 3
)

// Command is a ready-to-send protocol command: the opcode with its argument
// bytes, and the password authorizing it.
type Command struct {
	Code     []byte
	Password string
}

// Commands maps high-level intents to protocol commands using the
// configured passwords. Partition-scoped commands use that partition's
// password when one is set and fall back to the master password.
type Commands struct {
	Master     string
	Partitions map[string]string // keyed by partition letter A-D
}

func (c Commands) Status() Command {
	return Command{Code: []byte{opStatus}, Password: c.Master}
}

func (c Commands) Arm() Command {
	return Command{Code: []byte{opArm}, Password: c.Master}
}

func (c Commands) Disarm() Command {
	return Command{Code: []byte{opDisarm}, Password: c.Master}
}

func (c Commands) ArmStay() Command {
	return Command{Code: []byte{opArm, argStay}, Password: c.Master}
}

func (c Commands) ArmPartition(partition string) (Command, error) {
	letter, err := partitionLetter(partition)
	if err != nil {
		return Command{}, err
	}
	return Command{
		Code:     []byte{opArm, letter},
		Password: c.partitionPassword(partition),
	}, nil
}

func (c Commands) DisarmPartition(partition string) (Command, error) {
	letter, err := partitionLetter(partition)
	if err != nil {
		return Command{}, err
	}
	return Command{
		Code:     []byte{opDisarm, letter},
		Password: c.partitionPassword(partition),
	}, nil
}

// PGM switches a programmable output on or off.
func (c Commands) PGM(number int, activate bool) (Command, error) {
	if number < 1 || number > MaxPGMs {
		return Command{}, fmt.Errorf("%w: pgm %d", ErrInvalidArgument, number)
	}
	arg := byte(argPGMOff)
	if activate {
		arg = argPGMOn
	}
	return Command{
		Code:     []byte{opPGM, arg, byte('0' + number)},
		Password: c.Master,
	}, nil
}

// BypassZones bypasses every zone whose mask bit is set. The mask is
// 1-indexed: mask[0] is zone 1.
func (c Commands) BypassZones(mask []bool) (Command, error) {
	if len(mask) == 0 || len(mask) > MaxZones {
		return Command{}, fmt.Errorf("%w: mask covers %d zones", ErrInvalidArgument, len(mask))
	}
	code := []byte{opBypass}
	for i := 0; i < len(mask); i += 8 {
		var octet byte
		for j := 0; j < 8 && i+j < len(mask); j++ {
			if mask[i+j] {
				octet |= 1 << j
			}
		}
		code = append(code, octet)
	}
	return Command{Code: code, Password: c.Master}, nil
}

// BypassOpenZones bypasses every zone the snapshot reports open.
func (c Commands) BypassOpenZones(snap Snapshot) (Command, error) {
	mask := make([]bool, len(snap.Zones))
	for i, zone := range snap.Zones {
		mask[i] = zone.Open
	}
	return c.BypassZones(mask)
}

func (c Commands) partitionPassword(partition string) string {
	if pwd := c.Partitions[partition]; pwd != "" {
		return pwd
	}
	return c.Master
}

func partitionLetter(partition string) (byte, error) {
	if len(partition) != 1 || partition[0] < 'A' || partition[0] > 'A'+MaxPartitions-1 {
		return 0, fmt.Errorf("%w: partition %q", ErrInvalidArgument, partition)
	}
	return partition[0], nil
}
