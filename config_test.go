package isecmobile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg := Config{Host: "10.0.0.1", MasterPassword: "123456"}.withDefaults()
	require.Equal(t, DefaultPort, cfg.Port)
	require.Equal(t, DefaultScanInterval, cfg.ScanInterval)
	require.Equal(t, DefaultTimeout, cfg.Timeout)

	cfg = Config{
		Host:         "10.0.0.1",
		Port:         "9100",
		ScanInterval: 3 * time.Second,
		Timeout:      time.Second,
	}.withDefaults()
	require.Equal(t, "9100", cfg.Port)
	require.Equal(t, 3*time.Second, cfg.ScanInterval)
	require.Equal(t, time.Second, cfg.Timeout)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	valid := Config{
		Host:           "10.0.0.1",
		MasterPassword: "123456",
		PartitionPasswords: map[string]string{
			"A": "111111",
			"D": "444444",
		},
	}
	require.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*Config){
		"no host":                 func(c *Config) { c.Host = "" },
		"bad port":                func(c *Config) { c.Port = "http" },
		"port out of range":       func(c *Config) { c.Port = "70000" },
		"no master password":      func(c *Config) { c.MasterPassword = "" },
		"short master password":   func(c *Config) { c.MasterPassword = "123" },
		"letters in password":     func(c *Config) { c.MasterPassword = "12345a" },
		"unknown partition":       func(c *Config) { c.PartitionPasswords = map[string]string{"E": "123456"} },
		"bad partition password":  func(c *Config) { c.PartitionPasswords = map[string]string{"A": "12"} },
		"negative scan interval":  func(c *Config) { c.ScanInterval = -time.Second },
		"negative timeout":        func(c *Config) { c.Timeout = -time.Second },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()
	cfg := Config{
		Host:               "10.0.0.1",
		MasterPassword:     "123456",
		PartitionPasswords: map[string]string{"B": "654321"},
	}
	cmds := cfg.commands()
	require.Equal(t, "123456", cmds.Master)
	require.Equal(t, "654321", cmds.Partitions["B"])
}
