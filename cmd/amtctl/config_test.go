package main

import (
	"testing"
	"time"

	client "github.com/caarlos0/isecmobile"
	"github.com/stretchr/testify/require"
)

func TestZoneName(t *testing.T) {
	cfg := Config{ZoneNames: []string{"Front Door", "", "Kitchen"}}
	require.Equal(t, "Front Door", cfg.zoneName(1))
	require.Equal(t, "Zone 2", cfg.zoneName(2))
	require.Equal(t, "Kitchen", cfg.zoneName(3))
	require.Equal(t, "Zone 9", cfg.zoneName(9))
}

func TestWatchesZone(t *testing.T) {
	all := Config{}
	require.True(t, all.watchesZone(1))
	require.True(t, all.watchesZone(64))

	some := Config{Zones: []int{1, 3}}
	require.True(t, some.watchesZone(1))
	require.False(t, some.watchesZone(2))
	require.True(t, some.watchesZone(3))
}

func TestPanelConfig(t *testing.T) {
	cfg := Config{
		Host:         "10.0.0.7",
		Port:         "9015",
		Password:     "123456",
		PasswordB:    "654321",
		ScanInterval: 2 * time.Second,
		Timeout:      time.Second,
	}
	require.Equal(t, client.Config{
		Host:               "10.0.0.7",
		Port:               "9015",
		MasterPassword:     "123456",
		PartitionPasswords: map[string]string{"B": "654321"},
		ScanInterval:       2 * time.Second,
		Timeout:            time.Second,
	}, cfg.panelConfig())
}

func TestChangeSubject(t *testing.T) {
	cfg := Config{ZoneNames: []string{"Front Door"}}
	require.Equal(t, "Front Door", changeSubject(cfg, client.Change{Field: "zone.open", Zone: 1}))
	require.Equal(t, "partition B", changeSubject(cfg, client.Change{Field: "partition.armed", Partition: "B"}))
	require.Equal(t, "pgm 2", changeSubject(cfg, client.Change{Field: "pgm.active", PGM: 2}))
	require.Equal(t, "panel", changeSubject(cfg, client.Change{Field: "armed"}))
}
