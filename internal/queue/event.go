// Package queue carries reservation events over RabbitMQ: a publisher
// wired into the service layer as a notifier, and a consumer that keeps
// an append-only log of every change.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// ReservationEvent is the message body published for every committed
// reservation change.  It carries enough for downstream consumers to log
// or notify without querying the primary database.
type ReservationEvent struct {
    MessageID      string   `json:"message_id"`
    Type           string   `json:"type"`
    ReservationID  uint64   `json:"reservation_id"`
    UserID         *uint64  `json:"user_id,omitempty"`
    Date           string   `json:"reservation_date"`
    Time           string   `json:"reservation_time"`
    TableIDs       []uint64 `json:"table_ids"`
    Status         string   `json:"status,omitempty"`
    PreviousStatus string   `json:"previous_status,omitempty"`
    OccurredAt     string   `json:"occurred_at"`
}

// NewReservationEvent converts a service change into its wire form.
func NewReservationEvent(ch service.Change, now time.Time) ReservationEvent {
    ids := ch.TableIDs
    if ids == nil {
        ids = []uint64{}
    }
    return ReservationEvent{
        MessageID:      uuid.NewString(),
        Type:           ch.Kind,
        ReservationID:  ch.ReservationID,
        UserID:         ch.UserID,
        Date:           ch.Slot.Date,
        Time:           ch.Slot.Time,
        TableIDs:       ids,
        Status:         string(ch.Status),
        PreviousStatus: string(ch.PreviousStatus),
        OccurredAt:     now.UTC().Format(time.RFC3339),
    }
}
