package isecmobile

// Change records one field that differs between two snapshots. Exactly one
// of Zone, Partition or PGM is set for indexed facets; scalar fields leave
// them zero.
type Change struct {
	Field     string
	Zone      int    // 1-based zone number
	Partition string // partition letter
	PGM       int    // 1-based PGM number
	Before    any
	After     any
}

// Diff compares two snapshots and returns one change per field that
// differs. It is a pure comparison: Diff(s, s) is always empty. When the
// snapshots come from different models, indexed facets are compared over the
// smaller bank.
func Diff(prev, curr Snapshot) []Change {
	var changes []Change
	scalar := func(field string, before, after any) {
		if before != after {
			changes = append(changes, Change{Field: field, Before: before, After: after})
		}
	}

	scalar("model", prev.Model.Name, curr.Model.Name)
	scalar("firmware", prev.Firmware, curr.Firmware)
	scalar("armed", prev.Armed, curr.Armed)
	scalar("stay", prev.Stay, curr.Stay)
	scalar("triggered", prev.Triggered, curr.Triggered)
	scalar("siren", prev.Siren, curr.Siren)
	scalar("ac_power", prev.ACPower, curr.ACPower)
	scalar("battery_connected", prev.BatteryConnected, curr.BatteryConnected)
	scalar("battery_level", prev.BatteryLevel, curr.BatteryLevel)
	scalar("problem", prev.Problem, curr.Problem)

	for i := range min(len(prev.Zones), len(curr.Zones)) {
		p, c := prev.Zones[i], curr.Zones[i]
		if p.Open != c.Open {
			changes = append(changes, Change{
				Field: "zone.open", Zone: c.Number, Before: p.Open, After: c.Open,
			})
		}
		if p.Violated != c.Violated {
			changes = append(changes, Change{
				Field: "zone.violated", Zone: c.Number, Before: p.Violated, After: c.Violated,
			})
		}
		if p.Bypassed != c.Bypassed {
			changes = append(changes, Change{
				Field: "zone.bypassed", Zone: c.Number, Before: p.Bypassed, After: c.Bypassed,
			})
		}
	}

	for i := range min(len(prev.Partitions), len(curr.Partitions)) {
		p, c := prev.Partitions[i], curr.Partitions[i]
		if p.Armed != c.Armed {
			changes = append(changes, Change{
				Field: "partition.armed", Partition: c.Name, Before: p.Armed, After: c.Armed,
			})
		}
		if p.Stay != c.Stay {
			changes = append(changes, Change{
				Field: "partition.stay", Partition: c.Name, Before: p.Stay, After: c.Stay,
			})
		}
		if p.Triggered != c.Triggered {
			changes = append(changes, Change{
				Field: "partition.triggered", Partition: c.Name, Before: p.Triggered, After: c.Triggered,
			})
		}
	}

	for i := range min(len(prev.PGMs), len(curr.PGMs)) {
		p, c := prev.PGMs[i], curr.PGMs[i]
		if p.Active != c.Active {
			changes = append(changes, Change{
				Field: "pgm.active", PGM: c.Number, Before: p.Active, After: c.Active,
			})
		}
	}

	return changes
}
