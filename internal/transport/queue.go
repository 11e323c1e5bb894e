// Package transport is the simulated message fabric: a bounded in-process
// queue standing in for the real broker. Each delivered message carries a
// responder that settles the delivery exactly once and records every reply
// the handler sends.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"

	"archivesim/pkg/archive"
)

const defaultBuffer = 64

// Handler consumes one delivered message together with its responder.
type Handler func(ctx context.Context, message archive.InboundMessage, responder archive.Responder) error

// Outbound is one reply captured by the queue, in send order.
type Outbound struct {
	MessageID string
	InReplyTo string
	Type      string
	Filename  string
	Payload   []byte
}

// Option mutates queue configuration.
type Option func(*Queue)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(queue *Queue) {
		if logger != nil {
			queue.logger = logger
		}
	}
}

// WithBuffer overrides the inbox capacity.
func WithBuffer(buffer int) Option {
	return func(queue *Queue) {
		if buffer > 0 {
			queue.inbox = make(chan archive.InboundMessage, buffer)
		}
	}
}

// Queue is a single-consumer in-process message queue.
type Queue struct {
	logger *slog.Logger
	inbox  chan archive.InboundMessage

	mu     sync.Mutex
	sent   []Outbound
	acked  int
	nacked int
}

// NewQueue creates an empty queue.
func NewQueue(options ...Option) *Queue {
	queue := &Queue{
		logger: slog.Default(),
		inbox:  make(chan archive.InboundMessage, defaultBuffer),
	}
	for _, option := range options {
		option(queue)
	}

	return queue
}

// Publish enqueues one inbound message, assigning a transport identifier when
// the sender supplied none. It blocks on a full inbox until ctx expires.
func (q *Queue) Publish(ctx context.Context, message archive.InboundMessage) error {
	if message.ID == "" {
		message.ID = ulid.Make().String()
	}

	select {
	case q.inbox <- message:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish message %s: %w", message.ID, ctx.Err())
	}
}

// Run consumes the inbox until ctx is cancelled, then drains whatever is
// already buffered before returning, so accepted messages are never dropped.
func (q *Queue) Run(ctx context.Context, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("run queue: nil handler")
	}

	for {
		select {
		case <-ctx.Done():
			q.drain(context.WithoutCancel(ctx), handler)
			return nil
		case message := <-q.inbox:
			q.dispatch(ctx, handler, message)
		}
	}
}

// Sent returns the captured replies in send order.
func (q *Queue) Sent() []Outbound {
	q.mu.Lock()
	defer q.mu.Unlock()

	sent := make([]Outbound, len(q.sent))
	copy(sent, q.sent)

	return sent
}

// Acked returns the number of deliveries settled positively.
func (q *Queue) Acked() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.acked
}

// Nacked returns the number of deliveries settled negatively.
func (q *Queue) Nacked() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.nacked
}

func (q *Queue) drain(ctx context.Context, handler Handler) {
	for {
		select {
		case message := <-q.inbox:
			q.dispatch(ctx, handler, message)
		default:
			return
		}
	}
}

func (q *Queue) dispatch(ctx context.Context, handler Handler, message archive.InboundMessage) {
	responder := &queueResponder{queue: q, inReplyTo: message.ID}
	if err := handler(ctx, message, responder); err != nil {
		q.logger.ErrorContext(ctx, "message handler failed",
			"message_id", message.ID,
			"message_type", message.Type,
			"error", err,
		)
	}
}

func (q *Queue) recordAck() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked++
}

func (q *Queue) recordNack() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nacked++
}

func (q *Queue) recordReply(outbound Outbound) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, outbound)
}

// queueResponder settles one delivery. Ack and Nack are mutually exclusive
// and accepted at most once per delivery.
type queueResponder struct {
	queue     *Queue
	inReplyTo string
	settled   atomic.Bool
}

var _ archive.Responder = (*queueResponder)(nil)

func (r *queueResponder) Ack() error {
	if !r.settled.CompareAndSwap(false, true) {
		return fmt.Errorf("ack message %s: already settled", r.inReplyTo)
	}
	r.queue.recordAck()

	return nil
}

func (r *queueResponder) Nack() error {
	if !r.settled.CompareAndSwap(false, true) {
		return fmt.Errorf("nack message %s: already settled", r.inReplyTo)
	}
	r.queue.recordNack()

	return nil
}

func (r *queueResponder) Reply(ctx context.Context, reply archive.ReplyMessage) (archive.SentReceipt, error) {
	if err := ctx.Err(); err != nil {
		return archive.SentReceipt{}, fmt.Errorf("reply to message %s: %w", r.inReplyTo, err)
	}

	outbound := Outbound{
		MessageID: ulid.Make().String(),
		InReplyTo: r.inReplyTo,
		Type:      reply.Type,
		Filename:  reply.Filename,
	}
	if len(reply.Payload) > 0 {
		outbound.Payload = append([]byte(nil), reply.Payload...)
	}
	r.queue.recordReply(outbound)

	return archive.SentReceipt{
		MessageID:   outbound.MessageID,
		MessageType: outbound.Type,
	}, nil
}
