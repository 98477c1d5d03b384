package main

import (
	"strconv"

	client "github.com/caarlos0/isecmobile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var armedGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "amtctl",
	Subsystem: "alarm",
	Name:      "armed",
	Help:      "",
})

var stayGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "amtctl",
	Subsystem: "alarm",
	Name:      "stay",
	Help:      "",
})

var triggeredGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "amtctl",
	Subsystem: "alarm",
	Name:      "triggered",
	Help:      "",
})

var sirenGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "amtctl",
	Subsystem: "alarm",
	Name:      "siren",
	Help:      "",
})

var problemGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "amtctl",
	Subsystem: "power",
	Name:      "problem",
	Help:      "",
})

var batteryGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "amtctl",
	Subsystem: "power",
	Name:      "battery_level",
	Help:      "",
})

var partitionArmedGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "amtctl",
	Subsystem: "alarm",
	Name:      "partition_armed",
	Help:      "",
}, []string{"partition"})

var openGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "amtctl",
	Subsystem: "alarm",
	Name:      "open",
	Help:      "",
}, []string{"name"})

var violatedGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "amtctl",
	Subsystem: "alarm",
	Name:      "violated",
	Help:      "",
}, []string{"name"})

var bypassedGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "amtctl",
	Subsystem: "alarm",
	Name:      "bypassed",
	Help:      "",
}, []string{"name"})

var pgmGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "amtctl",
	Subsystem: "alarm",
	Name:      "pgm",
	Help:      "",
}, []string{"pgm"})

var pollCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "amtctl",
	Subsystem: "client",
	Name:      "polls_total",
	Help:      "",
})

var pollErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "amtctl",
	Subsystem: "client",
	Name:      "poll_errors_total",
	Help:      "",
})

func record(cfg Config, snap client.Snapshot) {
	armedGauge.Set(boolAs[float64](snap.Armed))
	stayGauge.Set(boolAs[float64](snap.Stay))
	triggeredGauge.Set(boolAs[float64](snap.Triggered))
	sirenGauge.Set(boolAs[float64](snap.Siren))
	problemGauge.Set(boolAs[float64](snap.Problem))
	batteryGauge.Set(float64(snap.BatteryLevel))

	for _, part := range snap.Partitions {
		partitionArmedGauge.WithLabelValues(part.Name).Set(boolAs[float64](part.Armed))
	}
	for _, zone := range snap.Zones {
		if !cfg.watchesZone(zone.Number) {
			continue
		}
		name := cfg.zoneName(zone.Number)
		openGauge.WithLabelValues(name).Set(boolAs[float64](zone.Open))
		violatedGauge.WithLabelValues(name).Set(boolAs[float64](zone.Violated))
		bypassedGauge.WithLabelValues(name).Set(boolAs[float64](zone.Bypassed))
	}
	for _, pgm := range snap.PGMs {
		pgmGauge.WithLabelValues(strconv.Itoa(pgm.Number)).Set(boolAs[float64](pgm.Active))
	}
}

func boolAs[T int | float64](b bool) T {
	if b {
		return 1
	}
	return 0
}
