package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/labstack/gommon/log"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/restaurant-table-reservation/internal/config"
)

// LogFile is the name of the event log inside QueueConfig.LogDir.
const LogFile = "reservations.log"

// Consumer appends every ReservationEvent on the queue to
// <LogDir>/reservations.log, one line per event.
type Consumer struct {
    cfg config.QueueConfig
    log *log.Logger
}

// NewConsumer returns a Consumer for cfg.
func NewConsumer(cfg config.QueueConfig) *Consumer {
    return &Consumer{cfg: cfg, log: log.New("reservation-consumer")}
}

// Run connects to the broker and consumes until ctx is done.  Lost
// connections are redialled with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := dial(c.cfg.URL, 10*time.Second)
        if err != nil {
            c.log.Warnf("dial broker: %v; retrying in %s", err, backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.Warnf("consume loop ended: %v; reconnecting", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.log.Warnf("set QoS: %v", err)
    }
    if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.Handle(d.Body); err != nil {
                c.log.Errorf("handle message %s: %v", d.MessageId, err)
                _ = d.Nack(false, false) // poison messages are dropped, not requeued
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// Handle decodes one message body and appends it to the event log.
func (c *Consumer) Handle(body []byte) error {
    var ev ReservationEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" || ev.ReservationID == 0 {
        return errors.New("event without type or reservation id")
    }
    if err := os.MkdirAll(c.cfg.LogDir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", c.cfg.LogDir, err)
    }
    f, err := os.OpenFile(filepath.Join(c.cfg.LogDir, LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders ev as a single newline-terminated log line.
func FormatLine(ev ReservationEvent) string {
    ids := make([]string, len(ev.TableIDs))
    for i, id := range ev.TableIDs {
        ids[i] = fmt.Sprint(id)
    }
    user := "anonymous"
    if ev.UserID != nil {
        user = fmt.Sprint(*ev.UserID)
    }
    status := ev.Status
    if ev.PreviousStatus != "" {
        status = ev.PreviousStatus + "->" + ev.Status
    }
    return fmt.Sprintf("[%s] %s | reservation_id=%d | user_id=%s | slot=%s %s | tables=[%s] | status=%s\n",
        ev.OccurredAt, ev.Type, ev.ReservationID, user, ev.Date, ev.Time, strings.Join(ids, ","), status)
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
