// Package message provides the data structures shared by the subscriber, the listener sinks and the ack ledger.
package message

import (
	"sync/atomic"
	"time"
)

// Payload is the canonical alias for raw message body
type Payload = []byte

// Outcome is how a delivery was settled
type Outcome string

const (
	// OutcomeAck means the broker was told the message is done
	OutcomeAck Outcome = "ack"
	// OutcomeNack means the broker was asked to redeliver
	OutcomeNack Outcome = "nack"
)

// Delivery is a single message handed to the listener by the broker client.
// It settles at most once: the first Ack or Nack wins, later calls are no-ops.
type Delivery struct {
	ID              string
	Subscription    string
	Data            Payload
	Attributes      map[string]string
	PublishTime     time.Time
	DeliveryAttempt *int

	ack     func()
	nack    func()
	settled atomic.Bool
	outcome atomic.Value
}

// NewDelivery builds a delivery whose settlement calls ack or nack
func NewDelivery(id, subscription string, data Payload, ack, nack func()) *Delivery {
	return &Delivery{
		ID:           id,
		Subscription: subscription,
		Data:         data,
		ack:          ack,
		nack:         nack,
	}
}

// Ack acknowledges the delivery. It reports whether this call settled it.
func (d *Delivery) Ack() bool {
	return d.settle(OutcomeAck, d.ack)
}

// Nack asks the broker to redeliver. It reports whether this call settled it.
func (d *Delivery) Nack() bool {
	return d.settle(OutcomeNack, d.nack)
}

func (d *Delivery) settle(outcome Outcome, fn func()) bool {
	if d == nil || !d.settled.CompareAndSwap(false, true) {
		return false
	}
	d.outcome.Store(outcome)
	if fn != nil {
		fn()
	}
	return true
}

// Settled reports whether Ack or Nack has been called
func (d *Delivery) Settled() bool {
	return d != nil && d.settled.Load()
}

// Outcome returns the settlement outcome, or "" when still pending
func (d *Delivery) Outcome() Outcome {
	if d == nil {
		return ""
	}
	if v, ok := d.outcome.Load().(Outcome); ok {
		return v
	}
	return ""
}

// AckRecord is one entry of the acknowledgement ledger
type AckRecord struct {
	ID           string
	Subscription string
	Outcome      Outcome
	PublishedAt  time.Time
	SettledAt    time.Time
}

// NewAckRecord snapshots a settled delivery
func NewAckRecord(d *Delivery, settledAt time.Time) AckRecord {
	return AckRecord{
		ID:           d.ID,
		Subscription: d.Subscription,
		Outcome:      d.Outcome(),
		PublishedAt:  d.PublishTime,
		SettledAt:    settledAt,
	}
}
