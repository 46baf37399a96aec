package services_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestTransformDeliveryDateTime(t *testing.T) {
	kl, err := time.LoadLocation("Asia/Kuala_Lumpur")
	require.NoError(t, err)

	tests := []struct {
		name     string
		date     *string
		session  *string
		expected time.Time
	}{
		{"am opens at nine", str("25-12-2024"), str("am"), time.Date(2024, 12, 25, 9, 0, 0, 0, kl)},
		{"morning opens at nine", str("25-12-2024"), str("Morning"), time.Date(2024, 12, 25, 9, 0, 0, 0, kl)},
		{"pm opens at noon", str("25-12-2024"), str("pm"), time.Date(2024, 12, 25, 12, 0, 0, 0, kl)},
		{"standard opens at noon", str("25-12-2024"), str("standard"), time.Date(2024, 12, 25, 12, 0, 0, 0, kl)},
		{"em opens at four", str("25-12-2024"), str("EM"), time.Date(2024, 12, 25, 16, 0, 0, 0, kl)},
		{"evening opens at four", str("25-12-2024"), str(" evening "), time.Date(2024, 12, 25, 16, 0, 0, 0, kl)},
		{"unknown session falls back to noon", str("25-12-2024"), str("xyz"), time.Date(2024, 12, 25, 12, 0, 0, 0, kl)},
		{"express falls back to noon", str("01-02-2025"), str("express"), time.Date(2025, 2, 1, 12, 0, 0, 0, kl)},
		{"missing session falls back to noon", str("01-02-2025"), nil, time.Date(2025, 2, 1, 12, 0, 0, 0, kl)},
		{"single digit day and month", str("5-1-2025"), str("am"), time.Date(2025, 1, 5, 9, 0, 0, 0, kl)},
		{"single digit month only", str("15-3-2025"), str("em"), time.Date(2025, 3, 15, 16, 0, 0, 0, kl)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at, err := services.TransformDeliveryDateTime(tt.date, tt.session, kl)

			require.NoError(t, err)
			require.NotNil(t, at)
			assert.True(t, tt.expected.Equal(*at), "expected %s, got %s", tt.expected, *at)
			assert.Equal(t, kl, at.Location())
			assert.Zero(t, at.Minute())
			assert.Zero(t, at.Second())
			assert.Zero(t, at.Nanosecond())
		})
	}

	t.Run("missing date yields nil", func(t *testing.T) {
		at, err := services.TransformDeliveryDateTime(nil, str("am"), kl)

		require.NoError(t, err)
		assert.Nil(t, at)
	})

	t.Run("blank date yields nil", func(t *testing.T) {
		at, err := services.TransformDeliveryDateTime(str("  "), nil, kl)

		require.NoError(t, err)
		assert.Nil(t, at)
	})

	t.Run("defaults to local time", func(t *testing.T) {
		at, err := services.TransformDeliveryDateTime(str("25-12-2024"), str("am"), nil)

		require.NoError(t, err)
		assert.Equal(t, time.Local, at.Location())
		assert.Equal(t, 9, at.Hour())
	})

	for _, bad := range []string{"2024-12-25", "32-12-2024", "25/12/2024", "5-1-25", "tomorrow"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			at, err := services.TransformDeliveryDateTime(str(bad), str("am"), kl)

			require.ErrorIs(t, err, services.ErrDeliveryDateIsInvalid)
			assert.Nil(t, at)
		})
	}
}

func TestDeliveryScheduler_Schedule(t *testing.T) {
	t.Run("should return the moment without logging", func(t *testing.T) {
		var buf bytes.Buffer
		s := services.NewDeliveryScheduler(time.UTC, slog.New(slog.NewJSONHandler(&buf, nil)))

		at := s.Schedule(t.Context(), services.DeliveryRef{OrderID: 1, OrderNumber: "100000"}, str("25-12-2024"), str("pm"))

		require.NotNil(t, at)
		assert.Equal(t, time.Date(2024, 12, 25, 12, 0, 0, 0, time.UTC), *at)
		assert.Empty(t, buf.String())
	})

	t.Run("should log a routed diagnostic and return nil on bad dates", func(t *testing.T) {
		var buf bytes.Buffer
		s := services.NewDeliveryScheduler(time.UTC, slog.New(slog.NewJSONHandler(&buf, nil)))

		at := s.Schedule(t.Context(), services.DeliveryRef{OrderID: 5001, OrderNumber: "100000"}, str("2024-12-25"), str("am"))

		assert.Nil(t, at)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "DeliveryScheduler", entry["component"])
		assert.Equal(t, "GOOGLE_CHAT_MISSING_DATE_V2", entry["channel"])
		assert.InDelta(t, 5001, entry["order_id"], 0)
		assert.Equal(t, "100000", entry["order_number"])
		assert.Equal(t, "2024-12-25", entry["delivery_date"])
		assert.Equal(t, "am", entry["delivery_session"])
		assert.Contains(t, entry["error"], "delivery date is invalid")
	})

	t.Run("should treat an absent date as no delivery without logging", func(t *testing.T) {
		var buf bytes.Buffer
		s := services.NewDeliveryScheduler(nil, slog.New(slog.NewJSONHandler(&buf, nil)))

		assert.Nil(t, s.Schedule(t.Context(), services.DeliveryRef{}, nil, nil))
		assert.Empty(t, buf.String())
		assert.Equal(t, time.Local, s.Location())
	})
}
