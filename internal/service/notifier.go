package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/damoang/caption-queue/internal/common"
	pkglogger "github.com/damoang/caption-queue/pkg/logger"
	"github.com/damoang/caption-queue/pkg/mailer"
)

// Notifier sends a fire-and-forget message to the configured recipient.
// Notify never blocks on delivery and never reports delivery errors.
type Notifier interface {
	Notify(subject, body string)
}

const defaultSendTimeout = 30 * time.Second

// MailNotifier queues messages and delivers them from background workers.
// Delivery runs on its own context so a finished request cannot cancel it.
type MailNotifier struct {
	sender      mailer.Sender
	queue       chan mailer.Message
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewMailNotifier starts workers draining a queue of queueSize messages
func NewMailNotifier(sender mailer.Sender, queueSize, workers int) *MailNotifier {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}

	n := &MailNotifier{
		sender:      sender,
		queue:       make(chan mailer.Message, queueSize),
		sendTimeout: defaultSendTimeout,
	}
	for i := 0; i < workers; i++ {
		n.wg.Add(1)
		go n.worker()
	}
	return n
}

// Notify enqueues a message. A full or closed queue drops it with a warning.
func (n *MailNotifier) Notify(subject, body string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		notificationsTotal.WithLabelValues("dropped").Inc()
		pkglogger.GetLogger().Warn().Str("subject", subject).Msg("notifier closed, message dropped")
		return
	}

	select {
	case n.queue <- mailer.Message{Subject: subject, Body: body}:
		notificationQueueDepth.Inc()
	default:
		notificationsTotal.WithLabelValues("dropped").Inc()
		pkglogger.GetLogger().Warn().Str("subject", subject).Msg("notification queue full, message dropped")
	}
}

func (n *MailNotifier) worker() {
	defer n.wg.Done()
	for msg := range n.queue {
		notificationQueueDepth.Dec()
		n.deliver(msg)
	}
}

func (n *MailNotifier) deliver(msg mailer.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), n.sendTimeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("sender panicked: %v", r)
			}
		}()
		return n.sender.Send(ctx, msg)
	}()

	if err != nil {
		nerr := &common.NotificationError{Subject: msg.Subject, Err: err}
		notificationsTotal.WithLabelValues("failed").Inc()
		pkglogger.GetLogger().Error().Err(nerr).Str("subject", msg.Subject).Msg("notification delivery failed")
		return
	}
	notificationsTotal.WithLabelValues("sent").Inc()
}

// Close stops accepting messages and waits for queued ones to be delivered
func (n *MailNotifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
