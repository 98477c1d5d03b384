package main

import (
	"testing"

	client "github.com/caarlos0/isecmobile"
	"github.com/stretchr/testify/require"
)

func TestTopicFor(t *testing.T) {
	p := &publisher{root: "amt"}
	for want, change := range map[string]client.Change{
		"amt/zone/3/open":        {Field: "zone.open", Zone: 3},
		"amt/zone/12/bypassed":   {Field: "zone.bypassed", Zone: 12},
		"amt/partition/B/armed":  {Field: "partition.armed", Partition: "B"},
		"amt/pgm/2/active":       {Field: "pgm.active", PGM: 2},
		"amt/armed":              {Field: "armed"},
		"amt/battery_level":      {Field: "battery_level"},
	} {
		require.Equal(t, want, p.topicFor(change))
	}
}
