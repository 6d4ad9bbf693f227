package keyboard

import (
	"testing"

	telebot "gopkg.in/telebot.v3"

	"github.com/geopin/geopin-bot/internal/training"
)

func flattenData(markup *telebot.ReplyMarkup) []string {
	var data []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.Data != "" {
				data = append(data, btn.Data)
			}
		}
	}
	return data
}

func containsData(markup *telebot.ReplyMarkup, want string) bool {
	for _, data := range flattenData(markup) {
		if data == want {
			return true
		}
	}
	return false
}

func TestMainMenuPerStage(t *testing.T) {
	b := NewBuilder("https://maps.example.com", nil)

	testCases := []struct {
		name     string
		stage    training.Stage
		expected string
	}{
		{name: "new user gets map step", stage: training.StageNew, expected: "training_start_map"},
		{name: "map shown gets add step", stage: training.StageMapShown, expected: "training_add_location"},
		{name: "add prompted gets real add flow", stage: training.StageAddPrompted, expected: "add_location"},
		{name: "location saved gets list step", stage: training.StageLocationSaved, expected: "training_list_locations"},
		{name: "graduated gets groups", stage: training.StageFinal, expected: "my_groups"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			markup := b.MainMenu(tc.stage)
			if !containsData(markup, tc.expected) {
				t.Errorf("stage %s menu missing %q; got %v", tc.stage, tc.expected, flattenData(markup))
			}
		})
	}
}

func TestMainMenuMapURL(t *testing.T) {
	b := NewBuilder("https://maps.example.com", nil)

	markup := b.MainMenu(training.StageFinal)
	found := false
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.URL == "https://maps.example.com" {
				found = true
			}
		}
	}
	if !found {
		t.Error("graduated menu has no map URL button")
	}
}

func TestItemKeyboardsEmbedID(t *testing.T) {
	b := NewBuilder("https://maps.example.com", nil)

	testCases := []struct {
		name     string
		markup   *telebot.ReplyMarkup
		expected string
	}{
		{name: "location delete", markup: b.LocationItem(7), expected: "delete_location_7"},
		{name: "group leave", markup: b.MemberGroupItem(12), expected: "leave_group_12"},
		{name: "group delete", markup: b.AdminGroupItem(3), expected: "delete_group_3"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if !containsData(tc.markup, tc.expected) {
				t.Errorf("keyboard missing %q; got %v", tc.expected, flattenData(tc.markup))
			}
		})
	}
}
