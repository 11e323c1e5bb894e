// Package dispatcher is the simulator's top-level state machine. It
// classifies each inbound message, settles the transport outcome (ack before
// any reply, nack for unrecognized types), runs the matching handler, and
// sends the resulting replies in their documented order.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"

	"archivesim/pkg/archive"
)

// Validator produces either a typed document or violation groups per payload.
type Validator interface {
	Submission(payload []byte) (*archive.Submission, archive.ValidationResult)
	Update(payload []byte) (*archive.UpdateRequest, archive.ValidationResult)
	Search(payload []byte) (*archive.SearchRequest, archive.ValidationResult)
	Lookup(payload []byte) (*archive.LookupRequest, archive.ValidationResult)
}

// SessionStore owns the accumulated archive state per session identifier.
type SessionStore interface {
	AssignMissingSystemIDs(submission *archive.Submission)
	MergeSubmission(sessionID string, submission *archive.Submission)
	ApplyUpdate(sessionID string, update *archive.UpdateRequest) error
	Search(sessionID string, query string, maxHits int) []archive.Registration
	Lookup(sessionID string, ref archive.Reference) (archive.Registration, bool)
}

// ReplyBuilder builds typed reply envelopes from business outcomes.
type ReplyBuilder interface {
	InvalidRequest(reason string) (archive.ReplyMessage, error)
	InvalidRequestFromViolations(result archive.ValidationResult) (archive.ReplyMessage, error)
	SubmissionReplies(submission *archive.Submission) ([]archive.ReplyMessage, error)
	UpdateReplies() []archive.ReplyMessage
	SearchResult(level archive.DetailLevel, hits []archive.Registration) (archive.ReplyMessage, error)
	LookupResult(registration archive.Registration) (archive.ReplyMessage, error)
}

// Option mutates dispatcher configuration.
type Option func(*Dispatcher)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(dispatcher *Dispatcher) {
		if logger != nil {
			dispatcher.logger = logger
		}
	}
}

// Dispatcher routes inbound messages to handlers and replies through the
// per-message responder.
type Dispatcher struct {
	logger    *slog.Logger
	validator Validator
	store     SessionStore
	replies   ReplyBuilder
}

// New creates a dispatcher over its collaborators.
func New(validator Validator, store SessionStore, replies ReplyBuilder, options ...Option) (*Dispatcher, error) {
	if validator == nil {
		return nil, fmt.Errorf("new dispatcher: nil validator")
	}
	if store == nil {
		return nil, fmt.Errorf("new dispatcher: nil session store")
	}
	if replies == nil {
		return nil, fmt.Errorf("new dispatcher: nil reply builder")
	}

	dispatcher := &Dispatcher{
		logger:    slog.Default(),
		validator: validator,
		store:     store,
		replies:   replies,
	}
	for _, option := range options {
		option(dispatcher)
	}

	return dispatcher, nil
}

// Dispatch handles one inbound message to completion.
//
// Unrecognized types are nacked and produce no reply. Recognized types are
// acked before any business logic runs, so a later failure never causes
// redelivery of the original message.
func (d *Dispatcher) Dispatch(ctx context.Context, message archive.InboundMessage, responder archive.Responder) error {
	if responder == nil {
		return fmt.Errorf("dispatch message %s: nil responder", message.ID)
	}

	if !archive.IsKnownType(message.Type) {
		d.logger.InfoContext(ctx, "unknown message type discarded",
			"message_id", message.ID,
			"message_type", message.Type,
		)
		if err := responder.Nack(); err != nil {
			return fmt.Errorf("nack message %s: %w", message.ID, err)
		}
		return nil
	}

	d.logger.InfoContext(ctx, "message received",
		"message_id", message.ID,
		"message_type", message.Type,
	)
	if err := responder.Ack(); err != nil {
		return fmt.Errorf("ack message %s: %w", message.ID, err)
	}

	replies, err := d.handle(ctx, message)
	if err != nil {
		return fmt.Errorf("handle message %s: %w", message.ID, err)
	}

	for _, replyMessage := range replies {
		receipt, err := responder.Reply(ctx, replyMessage)
		if err != nil {
			return fmt.Errorf("send reply %s for message %s: %w", replyMessage.Type, message.ID, err)
		}
		d.logger.InfoContext(ctx, "reply sent",
			"message_id", receipt.MessageID,
			"message_type", receipt.MessageType,
			"in_reply_to", message.ID,
		)
	}

	return nil
}

func (d *Dispatcher) handle(ctx context.Context, message archive.InboundMessage) ([]archive.ReplyMessage, error) {
	switch message.Type {
	case archive.TypeSubmission:
		return d.handleSubmission(ctx, message)
	case archive.TypeUpdate:
		return d.handleUpdate(ctx, message)
	case archive.TypeSearch:
		return d.handleSearch(ctx, message)
	case archive.TypeLookupByID:
		return d.handleLookup(ctx, message)
	default:
		return nil, fmt.Errorf("unhandled message type %s", message.Type)
	}
}

func (d *Dispatcher) handleSubmission(ctx context.Context, message archive.InboundMessage) ([]archive.ReplyMessage, error) {
	if !message.HasPayload {
		return d.singleInvalid(fmt.Sprintf("archive submission %s", archive.ErrMissingContent))
	}

	document, result := d.validator.Submission(message.Payload)
	if !result.Valid() {
		return d.invalidFromViolations(ctx, message, result)
	}

	d.store.AssignMissingSystemIDs(document)
	if sessionID, scoped := message.SessionID(); scoped {
		d.store.MergeSubmission(sessionID, document)
	}

	replies, err := d.replies.SubmissionReplies(document)
	if err != nil {
		return nil, fmt.Errorf("build submission replies: %w", err)
	}

	return replies, nil
}

func (d *Dispatcher) handleUpdate(ctx context.Context, message archive.InboundMessage) ([]archive.ReplyMessage, error) {
	if !message.HasPayload {
		return d.singleInvalid(fmt.Sprintf("archive update %s", archive.ErrMissingContent))
	}

	document, result := d.validator.Update(message.Payload)
	if !result.Valid() {
		return d.invalidFromViolations(ctx, message, result)
	}

	sessionID, _ := message.SessionID()
	if err := d.store.ApplyUpdate(sessionID, document); err != nil {
		d.logger.InfoContext(ctx, "update rejected",
			"message_id", message.ID,
			"reason", err.Error(),
		)
		return d.singleInvalid(err.Error())
	}

	return d.replies.UpdateReplies(), nil
}

func (d *Dispatcher) handleSearch(ctx context.Context, message archive.InboundMessage) ([]archive.ReplyMessage, error) {
	if !message.HasPayload {
		return d.singleInvalid(fmt.Sprintf("search request %s", archive.ErrMissingContent))
	}

	request, result := d.validator.Search(message.Payload)
	if !result.Valid() {
		return d.invalidFromViolations(ctx, message, result)
	}

	sessionID, _ := message.SessionID()
	level := archive.ParseDetailLevel(request.Detail)
	hits := d.store.Search(sessionID, request.Query, request.MaxHits)

	replyMessage, err := d.replies.SearchResult(level, hits)
	if err != nil {
		return nil, fmt.Errorf("build search result: %w", err)
	}

	return []archive.ReplyMessage{replyMessage}, nil
}

func (d *Dispatcher) handleLookup(ctx context.Context, message archive.InboundMessage) ([]archive.ReplyMessage, error) {
	if !message.HasPayload {
		return d.singleInvalid(fmt.Sprintf("lookup request %s", archive.ErrMissingContent))
	}

	request, result := d.validator.Lookup(message.Payload)
	if !result.Valid() {
		return d.invalidFromViolations(ctx, message, result)
	}

	ref := request.Reference()
	if ref.IsZero() {
		return d.singleInvalid(archive.ErrMissingIdentifyingKey.Error())
	}

	sessionID, _ := message.SessionID()
	registration, found := d.store.Lookup(sessionID, ref)
	if !found {
		return d.singleInvalid(fmt.Sprintf("no registration matches %s", ref))
	}

	replyMessage, err := d.replies.LookupResult(registration)
	if err != nil {
		return nil, fmt.Errorf("build lookup result: %w", err)
	}

	return []archive.ReplyMessage{replyMessage}, nil
}

func (d *Dispatcher) invalidFromViolations(
	ctx context.Context,
	message archive.InboundMessage,
	result archive.ValidationResult,
) ([]archive.ReplyMessage, error) {
	d.logger.InfoContext(ctx, "payload failed validation",
		"message_id", message.ID,
		"message_type", message.Type,
		"violations", len(result.First()),
	)

	replyMessage, err := d.replies.InvalidRequestFromViolations(result)
	if err != nil {
		return nil, fmt.Errorf("build invalid request reply: %w", err)
	}

	return []archive.ReplyMessage{replyMessage}, nil
}

func (d *Dispatcher) singleInvalid(reason string) ([]archive.ReplyMessage, error) {
	replyMessage, err := d.replies.InvalidRequest(reason)
	if err != nil {
		return nil, fmt.Errorf("build invalid request reply: %w", err)
	}

	return []archive.ReplyMessage{replyMessage}, nil
}
