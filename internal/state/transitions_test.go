package state

import "testing"

func TestIsTransitionAllowed(t *testing.T) {
	testCases := []struct {
		name     string
		from     State
		to       State
		expected bool
	}{
		{name: "idle to location description", from: StateIdle, to: StateAddLocationDescription, expected: true},
		{name: "idle to group title", from: StateIdle, to: StateAddGroupTitle, expected: true},
		{name: "description to coordinates", from: StateAddLocationDescription, to: StateAddLocationCoordinates, expected: true},
		{name: "description back to idle", from: StateAddLocationDescription, to: StateIdle, expected: true},
		{name: "coordinates to idle", from: StateAddLocationCoordinates, to: StateIdle, expected: true},
		{name: "group title to idle", from: StateAddGroupTitle, to: StateIdle, expected: true},
		{name: "idle straight to coordinates invalid", from: StateIdle, to: StateAddLocationCoordinates, expected: false},
		{name: "group title to coordinates invalid", from: StateAddGroupTitle, to: StateAddLocationCoordinates, expected: false},
		{name: "coordinates back to description invalid", from: StateAddLocationCoordinates, to: StateAddLocationDescription, expected: false},
		{name: "unknown state to description invalid", from: State("unknown"), to: StateAddLocationDescription, expected: false},
		{name: "any state to idle emergency", from: State("whatever"), to: StateIdle, expected: true},
		{name: "any state to error emergency", from: StateAddLocationCoordinates, to: StateError, expected: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := IsTransitionAllowed(tc.from, tc.to); actual != tc.expected {
				t.Errorf("IsTransitionAllowed(%s -> %s) = %t, expected %t", tc.from, tc.to, actual, tc.expected)
			}
		})
	}
}
