//go:build unit

package booking_test

import (
	"testing"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection(t *testing.T) {
	t.Run("picks inside the window accumulate", func(t *testing.T) {
		sel := booking.NewSelection(30)

		require.NoError(t, sel.Add(pick("2025-03-10", "10:00")))
		require.NoError(t, sel.Add(pick("2025-03-24", "13:00")))

		assert.Equal(t, 2, sel.Len())
	})

	t.Run("duplicate pick is rejected", func(t *testing.T) {
		sel := booking.NewSelection(30)
		require.NoError(t, sel.Add(pick("2025-03-10", "10:00")))

		err := sel.Add(pick("2025-03-10", "10:00"))

		require.ErrorIs(t, err, booking.ErrDuplicateSlot)
		assert.Equal(t, 1, sel.Len())
	})

	t.Run("pick past the window is rejected at add time", func(t *testing.T) {
		sel := booking.NewSelection(30)
		require.NoError(t, sel.Add(pick("2025-03-10", "10:00")))

		err := sel.Add(pick("2025-04-14", "10:00"))

		require.ErrorIs(t, err, booking.ErrOutsideWindow)
		assert.Equal(t, 1, sel.Len())
	})

	t.Run("later time on the final window day still fits", func(t *testing.T) {
		sel := booking.NewSelection(30)
		require.NoError(t, sel.Add(pick("2025-03-10", "10:00")))

		require.NoError(t, sel.Add(pick("2025-04-09", "19:00")))
		assert.Equal(t, 2, sel.Len())
	})

	t.Run("earlier pick re-anchors the window backward", func(t *testing.T) {
		sel := booking.NewSelection(20)
		require.NoError(t, sel.Add(pick("2025-03-25", "10:00")))

		// 03-01 would re-anchor the window to [03-01, 03-21], pushing the
		// already-held 03-25 pick outside it.
		err := sel.Add(pick("2025-03-01", "10:00"))

		require.ErrorIs(t, err, booking.ErrOutsideWindow)
		assert.Equal(t, 1, sel.Len())
	})

	t.Run("removing the anchor re-anchors to the next earliest", func(t *testing.T) {
		sel := booking.NewSelection(30)
		anchor := pick("2025-03-10", "10:00")
		require.NoError(t, sel.Add(anchor))
		require.NoError(t, sel.Add(pick("2025-03-24", "13:00")))

		require.True(t, sel.Remove(anchor))

		start, _, ok := sel.Window()
		require.True(t, ok)
		assert.Equal(t, "2025-03-24", start.Format("2006-01-02"))
	})

	t.Run("removing the last pick clears the window", func(t *testing.T) {
		sel := booking.NewSelection(30)
		only := pick("2025-03-10", "10:00")
		require.NoError(t, sel.Add(only))

		require.True(t, sel.Remove(only))

		_, _, ok := sel.Window()
		assert.False(t, ok)
		assert.Equal(t, 0, sel.Len())
	})

	t.Run("removing an unknown pick reports false", func(t *testing.T) {
		sel := booking.NewSelection(30)

		assert.False(t, sel.Remove(pick("2025-03-10", "10:00")))
	})

	t.Run("invalid pick never enters the set", func(t *testing.T) {
		sel := booking.NewSelection(30)

		err := sel.Add(booking.SlotRef{Date: "bad-date", Time: "10:00"})

		require.Error(t, err)
		assert.Equal(t, 0, sel.Len())
	})

	t.Run("picks are returned as a copy", func(t *testing.T) {
		sel := booking.NewSelection(30)
		require.NoError(t, sel.Add(pick("2025-03-10", "10:00")))

		picks := sel.Picks()
		picks[0].Date = "2099-01-01"

		assert.Equal(t, "2025-03-10", sel.Picks()[0].Date)
	})
}
