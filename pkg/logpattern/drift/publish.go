package drift

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	cclog "github.com/cc-tundra/logpattern/pkg/log"
)

// Publisher publishes FormatChange events to a NATS subject, letting
// downstream consumers react to a format change without polling
// DetectDrift themselves.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to addr and returns a Publisher bound to subject.
// An empty addr is treated as "publishing disabled" by callers checking for
// a nil return alongside a nil error.
func NewPublisher(addr, subject string) (*Publisher, error) {
	if addr == "" {
		return nil, nil
	}
	conn, err := nats.Connect(addr, nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
		if err != nil {
			cclog.Warnf("drift: NATS error: %v", err)
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("logpattern: connect to nats at %s: %w", addr, err)
	}
	return &Publisher{conn: conn, subject: subject}, nil
}

// Publish sends one FormatChange as JSON.
func (p *Publisher) Publish(fc FormatChange) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("logpattern: marshal format change: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("logpattern: publish format change to %s: %w", p.subject, err)
	}
	return nil
}

// Close flushes and closes the underlying NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Flush()
	p.conn.Close()
}

// PublishAll publishes every FormatChange in report via pub. A nil pub is a
// no-op, so callers can always invoke this unconditionally.
func PublishAll(pub *Publisher, report *Report) error {
	if pub == nil {
		return nil
	}
	for _, fc := range report.FormatChanges {
		if err := pub.Publish(fc); err != nil {
			return err
		}
	}
	return nil
}
