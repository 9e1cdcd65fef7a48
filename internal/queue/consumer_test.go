package queue

import (
    "context"
    "encoding/json"
    "net"
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/config"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

func TestNewReservationEvent(t *testing.T) {
    uid := uint64(9)
    ev := NewReservationEvent(service.Change{
        Kind:           service.ChangeStatusChanged,
        ReservationID:  4,
        UserID:         &uid,
        Slot:           model.Slot{Date: "2025-07-04", Time: "18:00"},
        TableIDs:       []uint64{1, 2},
        Status:         model.StatusAccepted,
        PreviousStatus: model.StatusPending,
    }, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))

    if ev.MessageID == "" {
        t.Fatal("expected a message id")
    }
    if ev.OccurredAt != "2025-07-01T12:00:00Z" {
        t.Fatalf("occurred_at = %q", ev.OccurredAt)
    }
    got := FormatLine(ev)
    want := "[2025-07-01T12:00:00Z] reservation.status_changed | reservation_id=4 | user_id=9 | slot=2025-07-04 18:00 | tables=[1,2] | status=Pending->Accepted\n"
    if got != want {
        t.Fatalf("line:\n got %q\nwant %q", got, want)
    }
}

func TestHandleAppendsToLog(t *testing.T) {
    dir := t.TempDir()
    c := NewConsumer(config.QueueConfig{LogDir: filepath.Join(dir, "logs")})

    for _, kind := range []string{service.ChangeCreated, service.ChangeDeleted} {
        body, err := json.Marshal(NewReservationEvent(service.Change{Kind: kind, ReservationID: 1}, time.Now()))
        if err != nil {
            t.Fatal(err)
        }
        if err := c.Handle(body); err != nil {
            t.Fatalf("handle %s: %v", kind, err)
        }
    }

    data, err := os.ReadFile(filepath.Join(dir, "logs", LogFile))
    if err != nil {
        t.Fatal(err)
    }
    lines := strings.Split(strings.TrimSpace(string(data)), "\n")
    if len(lines) != 2 {
        t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
    }
    if !strings.Contains(lines[0], "reservation.created") || !strings.Contains(lines[1], "user_id=anonymous") {
        t.Fatalf("unexpected log: %q", data)
    }
}

func TestHandleRejectsGarbage(t *testing.T) {
    c := NewConsumer(config.QueueConfig{LogDir: t.TempDir()})
    if err := c.Handle([]byte("not json")); err == nil {
        t.Fatal("expected unmarshal error")
    }
    if err := c.Handle([]byte(`{"type":""}`)); err == nil {
        t.Fatal("expected error for empty event")
    }
}

func TestDisabledPublisherIsNil(t *testing.T) {
    if p := NewPublisher(config.QueueConfig{Enabled: false}); p != nil {
        t.Fatal("expected nil publisher")
    }
    var p *Publisher
    p.ReservationChanged(context.Background(), service.Change{Kind: service.ChangeCreated})
}

func TestPublishGivesUpOnSilentBroker(t *testing.T) {
    ln, err := net.Listen("tcp", "127.0.0.1:0")
    if err != nil {
        t.Fatalf("listen: %v", err)
    }
    defer ln.Close()
    // accept connections and never answer the AMQP handshake
    go func() {
        for {
            conn, err := ln.Accept()
            if err != nil {
                return
            }
            defer conn.Close()
        }
    }()

    p := NewPublisher(config.QueueConfig{Enabled: true, URL: "amqp://guest:guest@" + ln.Addr().String() + "/", Queue: "q"})
    ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
    defer cancel()

    start := time.Now()
    err = p.Publish(ctx, ReservationEvent{Type: service.ChangeCreated, ReservationID: 1})
    if err == nil {
        t.Fatal("expected publish to fail")
    }
    if elapsed := time.Since(start); elapsed > 3*time.Second {
        t.Fatalf("publish took %s, want it bounded by the context deadline", elapsed)
    }
}
