package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/labstack/gommon/log"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/restaurant-table-reservation/internal/config"
    "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// Publisher sends ReservationEvents to the configured queue.  It dials
// per message; reservation writes are rare enough that a pooled channel
// is not worth the reconnect handling.  Failures are logged and never
// reach the caller.
type Publisher struct {
    cfg config.QueueConfig
    log *log.Logger
}

// NewPublisher returns a Publisher, or nil when the queue is disabled.
func NewPublisher(cfg config.QueueConfig) *Publisher {
    if !cfg.Enabled {
        return nil
    }
    return &Publisher{cfg: cfg, log: log.New("reservation-publisher")}
}

// ReservationChanged implements service.Notifier.  Table catalogue
// changes are not published.
func (p *Publisher) ReservationChanged(ctx context.Context, ch service.Change) {
    if p == nil || ch.Kind == service.ChangeTables {
        return
    }
    ev := NewReservationEvent(ch, time.Now())
    ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
    defer cancel()
    if err := p.Publish(ctx, ev); err != nil {
        p.log.Errorf("publish %s for reservation %d: %v", ev.Type, ev.ReservationID, err)
    }
}

// publishTimeout bounds one publish, connection handshake included.  It
// runs on the request goroutine after commit.
const publishTimeout = 5 * time.Second

// Publish declares the queue and sends ev as a persistent JSON message.
// The ctx deadline, or publishTimeout without one, also bounds the dial.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
    timeout := publishTimeout
    if dl, ok := ctx.Deadline(); ok {
        timeout = time.Until(dl)
    }
    if timeout <= 0 {
        return fmt.Errorf("dial: %w", context.DeadlineExceeded)
    }
    conn, err := dial(p.cfg.URL, timeout)
    if err != nil {
        return fmt.Errorf("dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }
    return ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    ev.MessageID,
        Type:         ev.Type,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    })
}

// dial connects to the broker.  timeout covers the TCP connect and the
// AMQP handshake; amqp.Dial would wait up to 30s on a silent server.
func dial(url string, timeout time.Duration) (*amqp.Connection, error) {
    return amqp.DialConfig(url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(timeout),
    })
}
