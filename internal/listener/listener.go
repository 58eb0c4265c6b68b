// Package listener drives a subscription: every delivery runs through the sinks and is
// acknowledged only after all of them succeed.
package listener

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/ibs-source/bucket-manifest/internal/config"
	"github.com/ibs-source/bucket-manifest/internal/log"
	"github.com/ibs-source/bucket-manifest/internal/message"
	"github.com/sirupsen/logrus"
)

// Receiver is a subscription that pushes deliveries to a handler until ctx ends
type Receiver interface {
	Receive(ctx context.Context, handle func(ctx context.Context, d *message.Delivery)) error
	Path() string
}

// Ledger records how each delivery was settled
type Ledger interface {
	Record(ctx context.Context, rec message.AckRecord) error
}

// Stats are the listener counters
type Stats struct {
	Received uint64
	Acked    uint64
	Nacked   uint64
}

// Listener orchestrates receive, process, settle and record
type Listener struct {
	receiver       Receiver
	sinks          []Sink
	ledger         Ledger
	processTimeout time.Duration
	log            *log.Logger
	now            func() time.Time

	received atomic.Uint64
	acked    atomic.Uint64
	nacked   atomic.Uint64
}

// New creates a listener. ledger may be nil.
func New(receiver Receiver, sinks []Sink, ledger Ledger, cfg *config.ListenerConfig, logger *log.Logger) *Listener {
	return &Listener{
		receiver:       receiver,
		sinks:          sinks,
		ledger:         ledger,
		processTimeout: cfg.ProcessTimeout,
		log:            logger,
		now:            time.Now,
	}
}

// Run receives until ctx is cancelled or the pull fails.
// Cancellation returns nil; any other stop returns a *Fault.
func (l *Listener) Run(ctx context.Context) error {
	path := l.receiver.Path()
	for _, s := range l.sinks {
		if a, ok := s.(Announcer); ok {
			a.Announce(path)
		}
	}
	l.log.Info("Listening for messages on %s with %d sinks", path, len(l.sinks))

	err := l.receiver.Receive(ctx, l.Handle)

	stats := l.Stats()
	l.log.InfoWithFields(logrus.Fields{
		"received": stats.Received,
		"acked":    stats.Acked,
		"nacked":   stats.Nacked,
	}, "Listener stopped on %s", path)

	if err == nil || (ctx.Err() != nil && errors.Is(err, context.Canceled)) {
		return nil
	}

	fault := Classify(err)
	l.log.ErrorWithFields(logrus.Fields{
		"subscription": path,
		"kind":         fault.Kind.String(),
		"code":         fault.Code.String(),
	}, "Listener fault: %v", fault.Err)
	return fault
}

// Handle runs one delivery through the sinks and settles it
func (l *Listener) Handle(ctx context.Context, d *message.Delivery) {
	l.received.Add(1)

	pctx, cancel := context.WithTimeout(ctx, l.processTimeout)
	defer cancel()

	for _, s := range l.sinks {
		if err := s.Process(pctx, d); err != nil {
			l.log.WarnWithFields(logrus.Fields{"message_id": d.ID}, "Nacking message %s: %v", d.ID, err)
			l.settle(ctx, d, false)
			return
		}
	}
	l.settle(ctx, d, true)
}

func (l *Listener) settle(ctx context.Context, d *message.Delivery, ack bool) {
	var settled bool
	if ack {
		settled = d.Ack()
	} else {
		settled = d.Nack()
	}
	if !settled {
		l.log.Debug("Message %s was already settled as %s", d.ID, d.Outcome())
		return
	}

	if ack {
		l.acked.Add(1)
	} else {
		l.nacked.Add(1)
	}

	for _, s := range l.sinks {
		if o, ok := s.(SettleObserver); ok {
			o.Settled(d)
		}
	}

	l.record(ctx, d)
}

// record writes the ledger entry; failures are logged and never change the outcome
func (l *Listener) record(ctx context.Context, d *message.Delivery) {
	if l.ledger == nil {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.processTimeout)
	defer cancel()

	if err := l.ledger.Record(rctx, message.NewAckRecord(d, l.now())); err != nil {
		l.log.WarnWithFields(logrus.Fields{"message_id": d.ID}, "Failed to record %s: %v", d.Outcome(), err)
	}
}

// Stats returns a snapshot of the counters
func (l *Listener) Stats() Stats {
	return Stats{
		Received: l.received.Load(),
		Acked:    l.acked.Load(),
		Nacked:   l.nacked.Load(),
	}
}
