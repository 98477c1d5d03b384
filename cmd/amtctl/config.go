package main

import (
	"fmt"
	"time"

	client "github.com/caarlos0/isecmobile"
	"golang.org/x/exp/slices"
)

type Config struct {
	Host         string        `env:"HOST,notEmpty"`
	Port         string        `env:"PORT"          envDefault:"9015"`
	Password     string        `env:"PASSWORD,notEmpty"`
	PasswordA    string        `env:"PASSWORD_A"`
	PasswordB    string        `env:"PASSWORD_B"`
	PasswordC    string        `env:"PASSWORD_C"`
	PasswordD    string        `env:"PASSWORD_D"`
	Zones        []int         `env:"ZONES"`
	ZoneNames    []string      `env:"ZONE_NAMES"`
	ScanInterval time.Duration `env:"SCAN_INTERVAL" envDefault:"1s"`
	Timeout      time.Duration `env:"TIMEOUT"       envDefault:"5s"`
	MQTTURL      string        `env:"MQTT_URL"`
	MQTTTopic    string        `env:"MQTT_TOPIC"    envDefault:"amt"`
	Address      string        `env:"LISTEN"        envDefault:":9016"`
}

func (c Config) panelConfig() client.Config {
	partitions := map[string]string{}
	for letter, pwd := range map[string]string{
		"A": c.PasswordA,
		"B": c.PasswordB,
		"C": c.PasswordC,
		"D": c.PasswordD,
	} {
		if pwd != "" {
			partitions[letter] = pwd
		}
	}
	return client.Config{
		Host:               c.Host,
		Port:               c.Port,
		MasterPassword:     c.Password,
		PartitionPasswords: partitions,
		ScanInterval:       c.ScanInterval,
		Timeout:            c.Timeout,
	}
}

func (c Config) zoneName(n int) string {
	names := c.ZoneNames
	if len(names) > n-1 {
		if n := names[n-1]; n != "" {
			return n
		}
	}
	return fmt.Sprintf("Zone %d", n)
}

// watchesZone reports whether zone n should be reported. An empty ZONES list
// means all of them.
func (c Config) watchesZone(n int) bool {
	return len(c.Zones) == 0 || slices.Contains(c.Zones, n)
}
