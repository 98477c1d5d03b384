package isecmobile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiffSelf(t *testing.T) {
	payload := statusPayload(0x41)
	payload[offZonesOpen] = 0x0f
	payload[offPartitionsAB] = 0x11
	payload[offBattery] = 42

	snap, err := decodeStatus(payload)
	require.NoError(t, err)
	require.Empty(t, Diff(snap, snap))
}

func TestDiff(t *testing.T) {
	prev, err := decodeStatus(statusPayload(0x41))
	require.NoError(t, err)

	payload := statusPayload(0x41)
	payload[offZonesOpen] = 0x04    // zone 3 opens
	payload[offPartitionsCD] = 0x01 // partition C arms
	payload[offCentral] = 0x08      // panel arms
	payload[offBattery] = 75
	payload[offPGMSiren] = 0x02 // PGM 1 activates
	curr, err := decodeStatus(payload)
	require.NoError(t, err)

	changes := Diff(prev, curr)
	require.ElementsMatch(t, []Change{
		{Field: "armed", Before: false, After: true},
		{Field: "battery_level", Before: 0, After: 75},
		{Field: "zone.open", Zone: 3, Before: false, After: true},
		{Field: "partition.armed", Partition: "C", Before: false, After: true},
		{Field: "pgm.active", PGM: 1, Before: false, After: true},
	}, changes)
}

func TestDiffModelChange(t *testing.T) {
	big, err := decodeStatus(statusPayload(0x41))
	require.NoError(t, err)
	small, err := decodeStatus(statusPayload(0x38))
	require.NoError(t, err)

	changes := Diff(big, small)
	require.Equal(t, []Change{
		{Field: "model", Before: "AMT 4010 SMART", After: "AMT 1016"},
	}, changes)
}
