package main

import (
	"fmt"
	"strings"

	client "github.com/caarlos0/isecmobile"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the panel's current state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSupervisor(func(cfg Config, sup *client.Supervisor) error {
			snap, err := sup.Status(cmd.Context())
			if err != nil {
				return err
			}

			mac, err := client.MacAddress(cfg.Host)
			if err != nil {
				log.Warn(
					"could not get the mac address, needs 'cap_net_raw+ep' capabilities",
					"err", err,
				)
			}

			fmt.Printf("%s (firmware %s", snap.Model.Name, snap.Firmware)
			if mac != "" {
				fmt.Printf(", mac %s", mac)
			}
			fmt.Println(")")
			fmt.Printf("state:     %s\n", alarmState(snap))
			fmt.Printf("power:     %s\n", powerState(snap))
			for _, part := range snap.Partitions {
				fmt.Printf("partition %s: %s\n", part.Name, partitionState(part))
			}
			for _, zone := range snap.Zones {
				if !cfg.watchesZone(zone.Number) {
					continue
				}
				if state := zoneState(zone); state != "" {
					fmt.Printf("%s: %s\n", cfg.zoneName(zone.Number), state)
				}
			}
			for _, pgm := range snap.PGMs {
				fmt.Printf("pgm %d:     %s\n", pgm.Number, onOff(pgm.Active))
			}
			return nil
		})
	},
}

func alarmState(snap client.Snapshot) string {
	switch {
	case snap.Triggered:
		return "triggered"
	case snap.Siren:
		return "siren firing"
	case snap.Stay:
		return "armed (stay)"
	case snap.Armed:
		return "armed"
	default:
		return "disarmed"
	}
}

func powerState(snap client.Snapshot) string {
	var parts []string
	if snap.ACPower {
		parts = append(parts, "ac")
	}
	if snap.BatteryConnected {
		parts = append(parts, fmt.Sprintf("battery %d%%", snap.BatteryLevel))
	}
	if snap.Problem {
		parts = append(parts, "PROBLEM")
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, ", ")
}

func partitionState(part client.Partition) string {
	switch {
	case part.Triggered:
		return "triggered"
	case part.Stay:
		return "armed (stay)"
	case part.Armed:
		return "armed"
	default:
		return "disarmed"
	}
}

func zoneState(zone client.Zone) string {
	var parts []string
	if zone.Open {
		parts = append(parts, "open")
	}
	if zone.Violated {
		parts = append(parts, "violated")
	}
	if zone.Bypassed {
		parts = append(parts, "bypassed")
	}
	return strings.Join(parts, ", ")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
