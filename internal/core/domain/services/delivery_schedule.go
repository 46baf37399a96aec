package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DeliveryDateLayout is the day-month-year layout of the "Delivery Date" attribute.
// Day and month take one or two digits.
const DeliveryDateLayout = "2-1-2006"

// MissingDateChannel routes delivery date diagnostics to the operations chat.
const MissingDateChannel = "GOOGLE_CHAT_MISSING_DATE_V2"

// ErrDeliveryDateIsInvalid is returned when the delivery date text does not match DeliveryDateLayout.
var ErrDeliveryDateIsInvalid = errors.New("delivery date is invalid")

// sessionHours maps a delivery session to the hour the delivery window opens.
func sessionHours() map[string]int {
	return map[string]int{
		"morning":  9,
		"am":       9,
		"standard": 12,
		"pm":       12,
		"evening":  16,
		"em":       16,
	}
}

// defaultSessionHour applies to unknown sessions (express included) and to a missing session.
const defaultSessionHour = 12

// TransformDeliveryDateTime combines a "DD-MM-YYYY" date and a delivery session into the
// moment the delivery window opens, in loc (time.Local when nil).
//
// A nil or blank date yields nil without error. A date that does not parse yields an
// error wrapping ErrDeliveryDateIsInvalid.
//
// Example:
//
//	date, session := "25-12-2024", "am"
//	at, err := services.TransformDeliveryDateTime(&date, &session, nil)
//	// at is 2024-12-25 09:00:00 local time
func TransformDeliveryDateTime(date, session *string, loc *time.Location) (*time.Time, error) {
	if date == nil || strings.TrimSpace(*date) == "" {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	if loc == nil {
		loc = time.Local
	}

	day, err := time.ParseInLocation(DeliveryDateLayout, strings.TrimSpace(*date), loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrDeliveryDateIsInvalid, *date, err)
	}

	hour := defaultSessionHour
	if session != nil {
		if h, ok := sessionHours()[strings.ToLower(strings.TrimSpace(*session))]; ok {
			hour = h
		}
	}

	at := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, loc)
	return &at, nil
}

// DeliveryRef identifies the order a delivery moment is computed for in diagnostics.
type DeliveryRef struct {
	OrderID     int64
	OrderNumber string
}

// DeliveryScheduler turns delivery text into a delivery moment without ever failing
// an ingestion: unparsable dates are reported to operations and yield nil.
type DeliveryScheduler struct {
	location *time.Location
	logger   *slog.Logger
}

func NewDeliveryScheduler(location *time.Location, logger *slog.Logger) *DeliveryScheduler {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeliveryScheduler{
		location: location,
		logger:   logger.With("component", "DeliveryScheduler"),
	}
}

// Location returns the zone delivery moments are computed in.
func (s *DeliveryScheduler) Location() *time.Location {
	return s.location
}

// Schedule returns the delivery moment or nil. Parse failures are logged with the
// order identifiers and routed to MissingDateChannel.
func (s *DeliveryScheduler) Schedule(ctx context.Context, ref DeliveryRef, date, session *string) *time.Time {
	at, err := TransformDeliveryDateTime(date, session, s.location)
	if err == nil {
		return at
	}

	s.logger.ErrorContext(ctx, "failed to transform delivery date",
		"order_id", ref.OrderID,
		"order_number", ref.OrderNumber,
		"delivery_date", deref(date),
		"delivery_session", deref(session),
		"error", err.Error(),
		"channel", MissingDateChannel,
	)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
