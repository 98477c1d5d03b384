package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	client "github.com/caarlos0/isecmobile"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the panel and stream state changes",
	Long: `Watch polls the panel on AMT_SCAN_INTERVAL and logs every state
change. With AMT_MQTT_URL set, changes are also published to retained MQTT
topics. Prometheus metrics are served on AMT_LISTEN under /metrics.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSupervisor(func(cfg Config, sup *client.Supervisor) error {
			ctx, cancel := signal.NotifyContext(
				cmd.Context(), os.Interrupt, syscall.SIGTERM,
			)
			defer cancel()

			var pub *publisher
			if cfg.MQTTURL != "" {
				p, err := newPublisher(cfg.MQTTURL, cfg.MQTTTopic)
				if err != nil {
					return err
				}
				defer p.close()
				pub = p
			}

			if cfg.Address != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				go func() {
					log.Info("serving metrics", "addr", cfg.Address)
					if err := http.ListenAndServe(cfg.Address, mux); err != nil {
						log.Error("could not serve metrics", "err", err)
					}
				}()
			}

			var prev client.Snapshot
			var seeded bool
			tick := time.NewTicker(cfg.ScanInterval)
			defer tick.Stop()
			for {
				pollCounter.Inc()
				snap, err := sup.Status(ctx)
				switch {
				case errors.Is(err, context.Canceled):
					return nil
				case errors.Is(err, client.ErrFaulted):
					return err
				case err != nil:
					pollErrorCounter.Inc()
					log.Error("could not get status", "err", err)
				default:
					record(cfg, snap)
					if !seeded {
						announce(cfg, pub, snap)
						seeded = true
					} else {
						report(cfg, pub, client.Diff(prev, snap))
					}
					prev = snap
				}
				select {
				case <-ctx.Done():
					return nil
				case <-tick.C:
				}
			}
		})
	},
}

// announce publishes the complete panel state once, so every retained MQTT
// topic exists before the diff stream starts.
func announce(cfg Config, pub *publisher, snap client.Snapshot) {
	log.Info(
		"connected to panel",
		"model", snap.Model.Name,
		"firmware", snap.Firmware,
		"state", alarmState(snap),
		"battery", snap.BatteryLevel,
	)
	if pub == nil {
		return
	}
	facts := []client.Change{
		{Field: "model", After: snap.Model.Name},
		{Field: "firmware", After: snap.Firmware},
		{Field: "armed", After: snap.Armed},
		{Field: "stay", After: snap.Stay},
		{Field: "triggered", After: snap.Triggered},
		{Field: "siren", After: snap.Siren},
		{Field: "ac_power", After: snap.ACPower},
		{Field: "battery_connected", After: snap.BatteryConnected},
		{Field: "battery_level", After: snap.BatteryLevel},
		{Field: "problem", After: snap.Problem},
	}
	for _, zone := range snap.Zones {
		if !cfg.watchesZone(zone.Number) {
			continue
		}
		facts = append(facts,
			client.Change{Field: "zone.open", Zone: zone.Number, After: zone.Open},
			client.Change{Field: "zone.violated", Zone: zone.Number, After: zone.Violated},
			client.Change{Field: "zone.bypassed", Zone: zone.Number, After: zone.Bypassed},
		)
	}
	for _, part := range snap.Partitions {
		facts = append(facts,
			client.Change{Field: "partition.armed", Partition: part.Name, After: part.Armed},
			client.Change{Field: "partition.stay", Partition: part.Name, After: part.Stay},
			client.Change{Field: "partition.triggered", Partition: part.Name, After: part.Triggered},
		)
	}
	for _, pgm := range snap.PGMs {
		facts = append(facts, client.Change{
			Field: "pgm.active", PGM: pgm.Number, After: pgm.Active,
		})
	}
	for _, fact := range facts {
		pub.change(fact)
	}
}

// report logs and publishes one round of changes.
func report(cfg Config, pub *publisher, changes []client.Change) {
	for _, change := range changes {
		if change.Zone > 0 && !cfg.watchesZone(change.Zone) {
			continue
		}
		log.Info(
			change.Field,
			"subject", changeSubject(cfg, change),
			"before", change.Before,
			"after", change.After,
		)
		if pub != nil {
			pub.change(change)
		}
	}
}

func changeSubject(cfg Config, c client.Change) string {
	switch {
	case c.Zone > 0:
		return cfg.zoneName(c.Zone)
	case c.Partition != "":
		return "partition " + c.Partition
	case c.PGM > 0:
		return fmt.Sprintf("pgm %d", c.PGM)
	default:
		return "panel"
	}
}
