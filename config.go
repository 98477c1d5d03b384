package isecmobile

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultScanInterval is how often hosts typically poll the panel.
const DefaultScanInterval = time.Second

// Config is the connection surface the host supplies. The zero values of
// Port, ScanInterval and Timeout select the defaults.
type Config struct {
	Host               string
	Port               string
	MasterPassword     string
	PartitionPasswords map[string]string // keyed by partition letter A-D
	ScanInterval       time.Duration
	Timeout            time.Duration
}

func (c Config) withDefaults() Config {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.ScanInterval == 0 {
		c.ScanInterval = DefaultScanInterval
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Validate rejects configurations that could never talk to a panel. Nothing
// is sent on the wire for these.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	if c.Port != "" {
		port, err := strconv.Atoi(c.Port)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("%w: port %q", ErrInvalidConfig, c.Port)
		}
	}
	if err := validatePassword(c.MasterPassword); err != nil {
		return fmt.Errorf("%w: master password: %v", ErrInvalidConfig, err)
	}
	for partition, pwd := range c.PartitionPasswords {
		if _, err := partitionLetter(partition); err != nil {
			return fmt.Errorf("%w: partition %q", ErrInvalidConfig, partition)
		}
		if err := validatePassword(pwd); err != nil {
			return fmt.Errorf("%w: partition %s password: %v", ErrInvalidConfig, partition, err)
		}
	}
	if c.ScanInterval < 0 {
		return fmt.Errorf("%w: negative scan interval", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidConfig)
	}
	return nil
}

func (c Config) commands() Commands {
	return Commands{
		Master:     c.MasterPassword,
		Partitions: c.PartitionPasswords,
	}
}
