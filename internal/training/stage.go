// Package training models the linear onboarding progression a user walks
// through on first contact with the bot.
package training

import "strconv"

// Stage is the persisted onboarding progress marker. It only moves forward
// during normal progression; the explicit skip and repeat commands are the
// sole ways to jump to the end or back to the start.
type Stage int

const (
	// StageNew is assigned at first registration.
	StageNew Stage = 0
	// StageMapShown is reached once the user has opened the map.
	StageMapShown Stage = 1
	// StageAddPrompted is reached when the user begins the add-location flow.
	StageAddPrompted Stage = 2
	// StageLocationSaved is reached after a location is successfully stored.
	StageLocationSaved Stage = 3
	// StageFinal marks a graduated user; no further automatic transitions.
	StageFinal Stage = 4
)

// Clamp constrains an arbitrary integer into the valid stage range.
func Clamp(raw int) Stage {
	if raw < int(StageNew) {
		return StageNew
	}
	if raw > int(StageFinal) {
		return StageFinal
	}
	return Stage(raw)
}

// Advance returns the stage after a normal-progression transition towards
// target. The result never regresses below current.
func Advance(current, target Stage) Stage {
	if target < current {
		return current
	}
	return target
}

// Done reports whether the user has graduated from onboarding.
func (s Stage) Done() bool {
	return s >= StageFinal
}

func (s Stage) String() string {
	switch s {
	case StageNew:
		return "new"
	case StageMapShown:
		return "map_shown"
	case StageAddPrompted:
		return "add_prompted"
	case StageLocationSaved:
		return "location_saved"
	case StageFinal:
		return "final"
	default:
		return "stage_" + strconv.Itoa(int(s))
	}
}
