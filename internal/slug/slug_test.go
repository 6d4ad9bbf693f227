package slug

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/geopin/geopin-bot/internal/errors"
)

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		title    string
		taken    map[string]bool
		expected string
	}{
		{name: "simple title", title: "Bike Club", expected: "bike-club"},
		{name: "cyrillic title transliterated", title: "Клуб Велосипедистов", expected: "klub-velosipedistov"},
		{name: "first collision gets suffix", title: "Bike Club", taken: map[string]bool{"bike-club": true}, expected: "bike-club-1"},
		{
			name:     "suffix counter keeps incrementing",
			title:    "Bike Club",
			taken:    map[string]bool{"bike-club": true, "bike-club-1": true, "bike-club-2": true},
			expected: "bike-club-3",
		},
		{name: "punctuation stripped", title: "  Hello, World!  ", expected: "hello-world"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			gen := NewGenerator(func(_ context.Context, code string) (bool, error) {
				return tc.taken[code], nil
			})

			code, err := gen.Generate(ctx, tc.title)
			require.NoError(t, err)
			require.Equal(t, tc.expected, code)
		})
	}
}

func TestGenerator_Generate_InvalidTitle(t *testing.T) {
	gen := NewGenerator(func(context.Context, string) (bool, error) {
		return false, nil
	})

	for _, title := range []string{"", "   ", "!!!", "???..."} {
		_, err := gen.Generate(context.Background(), title)
		require.Error(t, err, "title %q", title)
		require.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
	}
}

func TestGenerator_Generate_StoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	gen := NewGenerator(func(context.Context, string) (bool, error) {
		return false, storeErr
	})

	_, err := gen.Generate(context.Background(), "Bike Club")
	require.ErrorIs(t, err, storeErr)
}

func TestGenerator_Generate_SecondCallAfterPersist(t *testing.T) {
	persisted := map[string]bool{}
	gen := NewGenerator(func(_ context.Context, code string) (bool, error) {
		return persisted[code], nil
	})

	first, err := gen.Generate(context.Background(), "Bike Club")
	require.NoError(t, err)
	persisted[first] = true

	second, err := gen.Generate(context.Background(), "Bike Club")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
	require.Equal(t, "bike-club-1", second)
}
