package isecmobile

import "fmt"

// Model is a supported panel model and its capacity. The status payload has
// room for 64 zone bits regardless of what the panel actually monitors, so
// zone banks are cut down to the model's real size after unpacking.
type Model struct {
	ID         byte
	Name       string
	Zones      int
	Partitions int
	PGMs       int
}

// MaxZones is the largest zone bank any supported model exposes.
const MaxZones = 64

var models = map[byte]Model{
	0x41: {ID: 0x41, Name: "AMT 4010 SMART", Zones: 64, Partitions: 4, PGMs: 3},
	0x39: {ID: 0x39, Name: "AMT 2018", Zones: 18, Partitions: 4, PGMs: 3},
	0x38: {ID: 0x38, Name: "AMT 1016", Zones: 16, Partitions: 4, PGMs: 3},
}

// Status payload offsets, relative to the decoded frame payload.
const (
	offZonesOpen     = 2
	offZonesViolated = 10
	offZonesBypassed = 18
	offModel         = 26
	offFirmware      = 27
	offPartitionsAB  = 28
	offPartitionsCD  = 29
	offCentral       = 30
	offPower         = 36
	offBattery       = 41
	offPGMSiren      = 46

	statusPayloadLen = 47
)

type Zone struct {
	Number   int
	Open     bool
	Violated bool
	Bypassed bool
}

type Partition struct {
	Name      string
	Armed     bool
	Stay      bool
	Triggered bool
}

type PGM struct {
	Number int
	Active bool
}

// Snapshot is one complete decoded panel state. It is produced fresh on
// every successful status poll and never mutated afterwards; compare two of
// them with Diff.
type Snapshot struct {
	Model            Model
	Firmware         string
	Zones            []Zone
	Partitions       []Partition
	PGMs             []PGM
	Armed            bool
	Stay             bool
	Triggered        bool
	Siren            bool
	ACPower          bool
	BatteryConnected bool
	BatteryLevel     int
	Problem          bool
}

// decodeStatus unpacks a status reply payload into a snapshot.
func decodeStatus(payload []byte) (Snapshot, error) {
	if len(payload) < statusPayloadLen {
		return Snapshot{}, fmt.Errorf("%w: %d bytes", ErrTruncatedPayload, len(payload))
	}
	model, ok := models[payload[offModel]]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: id 0x%02x", ErrUnsupportedModel, payload[offModel])
	}

	central := payload[offCentral]
	power := payload[offPower]
	pgmSiren := payload[offPGMSiren]

	snap := Snapshot{
		Model:            model,
		Firmware:         fmt.Sprintf("%d.%d", payload[offFirmware]>>4, payload[offFirmware]&0x0f),
		Zones:            make([]Zone, model.Zones),
		Partitions:       make([]Partition, model.Partitions),
		PGMs:             make([]PGM, model.PGMs),
		Armed:            central&0x08 > 0,
		Stay:             central&0x10 > 0,
		Triggered:        central&0x04 > 0,
		Siren:            pgmSiren&0x01 > 0,
		ACPower:          power&0x01 > 0,
		BatteryConnected: power&0x04 > 0,
		BatteryLevel:     batteryLevel(payload[offBattery]),
	}
	snap.Problem = !snap.ACPower || !snap.BatteryConnected

	for i := range snap.Zones {
		snap.Zones[i].Number = i + 1
	}
	unpackZones(payload[offZonesOpen:offZonesViolated], snap.Zones, func(z *Zone) { z.Open = true })
	unpackZones(payload[offZonesViolated:offZonesBypassed], snap.Zones, func(z *Zone) { z.Violated = true })
	unpackZones(payload[offZonesBypassed:offZonesBypassed+8], snap.Zones, func(z *Zone) { z.Bypassed = true })

	// One nibble per partition, A in the low nibble of the first byte.
	for i := range snap.Partitions {
		nibble := payload[offPartitionsAB+i/2]
		if i%2 == 1 {
			nibble >>= 4
		}
		snap.Partitions[i] = Partition{
			Name:      partitionName(i),
			Armed:     nibble&0x01 > 0,
			Stay:      nibble&0x02 > 0,
			Triggered: nibble&0x04 > 0,
		}
	}

	// Siren sits on bit 0, PGMs 1..3 on the bits above it.
	for i := range snap.PGMs {
		snap.PGMs[i] = PGM{Number: i + 1, Active: pgmSiren&(1<<(i+1)) > 0}
	}
	return snap, nil
}

func unpackZones(octets []byte, zones []Zone, set func(*Zone)) {
	for i, octet := range octets {
		for j := 0; j < 8; j++ {
			n := i*8 + j
			if n >= len(zones) {
				return
			}
			if octet&(1<<j) > 0 {
				set(&zones[n])
			}
		}
	}
}

func batteryLevel(b byte) int {
	if b > 100 {
		return 100
	}
	return int(b)
}

func partitionName(i int) string {
	return string(rune('A' + i))
}
