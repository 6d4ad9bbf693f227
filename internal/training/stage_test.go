package training

import "testing"

func TestAdvance(t *testing.T) {
	testCases := []struct {
		name     string
		current  Stage
		target   Stage
		expected Stage
	}{
		{name: "new to map shown", current: StageNew, target: StageMapShown, expected: StageMapShown},
		{name: "map shown to add prompted", current: StageMapShown, target: StageAddPrompted, expected: StageAddPrompted},
		{name: "location saved from add prompted", current: StageAddPrompted, target: StageLocationSaved, expected: StageLocationSaved},
		{name: "never regresses below current", current: StageFinal, target: StageLocationSaved, expected: StageFinal},
		{name: "out of order action keeps stage", current: StageLocationSaved, target: StageMapShown, expected: StageLocationSaved},
		{name: "same stage is a no-op", current: StageAddPrompted, target: StageAddPrompted, expected: StageAddPrompted},
		{name: "jump forward allowed", current: StageNew, target: StageLocationSaved, expected: StageLocationSaved},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := Advance(tc.current, tc.target); actual != tc.expected {
				t.Errorf("Advance(%s, %s) = %s, expected %s", tc.current, tc.target, actual, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	testCases := []struct {
		raw      int
		expected Stage
	}{
		{raw: -5, expected: StageNew},
		{raw: 0, expected: StageNew},
		{raw: 3, expected: StageLocationSaved},
		{raw: 4, expected: StageFinal},
		{raw: 99, expected: StageFinal},
	}

	for _, tc := range testCases {
		if actual := Clamp(tc.raw); actual != tc.expected {
			t.Errorf("Clamp(%d) = %s, expected %s", tc.raw, actual, tc.expected)
		}
	}
}

func TestStageDone(t *testing.T) {
	if StageLocationSaved.Done() {
		t.Error("location_saved must not be terminal")
	}
	if !StageFinal.Done() {
		t.Error("final stage must be terminal")
	}
}

func TestMainMessage_FallbackName(t *testing.T) {
	msg := MainMessage(StageNew, "")
	if msg == "" {
		t.Fatal("expected non-empty message")
	}
}
