// Package reply builds typed reply documents from business outcomes. The
// builder is pure apart from its injected identifier, clock, and number
// sources; identical outcomes produce structurally identical replies.
package reply

import (
	"encoding/xml"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"archivesim/pkg/archive"
)

const (
	invalidRequestFilename    = "invalid-request.xml"
	submissionReceiptFilename = "submission-receipt.xml"
	lookupResultFilename      = "lookup-result.xml"
)

// Option mutates builder configuration.
type Option func(*Builder)

// WithIDGenerator overrides the generated-identifier source.
func WithIDGenerator(newID func() string) Option {
	return func(builder *Builder) {
		if newID != nil {
			builder.newID = newID
		}
	}
}

// WithClock overrides the receipt timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(builder *Builder) {
		if clock != nil {
			builder.clock = clock
		}
	}
}

// WithSequenceSource overrides the simulated sequence-number source.
func WithSequenceSource(sequence func() int) Option {
	return func(builder *Builder) {
		if sequence != nil {
			builder.sequence = sequence
		}
	}
}

// WithItemSource overrides the simulated item-number source.
func WithItemSource(item func() int) Option {
	return func(builder *Builder) {
		if item != nil {
			builder.item = item
		}
	}
}

// Builder constructs reply envelopes. Generated identifiers and numbers are
// simulator placeholders, non-authoritative and non-monotonic.
type Builder struct {
	newID    func() string
	clock    func() time.Time
	sequence func() int
	item     func() int
}

// New creates a builder with random generated values.
func New(options ...Option) *Builder {
	builder := &Builder{
		newID:    uuid.NewString,
		clock:    time.Now,
		sequence: func() int { return rand.IntN(1_000_000_000) },
		item:     func() int { return 1 + rand.IntN(99) },
	}
	for _, option := range options {
		option(builder)
	}

	return builder
}

// InvalidRequest builds the structured error reply for one failure reason.
func (b *Builder) InvalidRequest(reason string) (archive.ReplyMessage, error) {
	payload, err := marshalPayload(archive.InvalidRequestReply{
		ErrorID:       b.newID(),
		CorrelationID: b.newID(),
		Message:       reason,
	})
	if err != nil {
		return archive.ReplyMessage{}, fmt.Errorf("build invalid request reply: %w", err)
	}

	return archive.ReplyMessage{
		Type:     archive.TypeInvalidRequest,
		Payload:  payload,
		Filename: invalidRequestFilename,
	}, nil
}

// InvalidRequestFromViolations builds the error reply from the first
// violation group of a validation result.
func (b *Builder) InvalidRequestFromViolations(result archive.ValidationResult) (archive.ReplyMessage, error) {
	return b.InvalidRequest(strings.Join(result.First(), "\n"))
}

// SubmissionReplies builds the ordered reply sequence for an accepted
// submission: a payload-free received acknowledgement followed by a receipt
// shaped by the submission's classification.
func (b *Builder) SubmissionReplies(submission *archive.Submission) ([]archive.ReplyMessage, error) {
	now := b.clock()
	receipt := archive.SubmissionReceipt{IssuedAt: now}
	if submission.IsFolderClass() {
		receipt.FolderReceipts = append(receipt.FolderReceipts, archive.FolderReceipt{
			SystemID:       b.newID(),
			CreatedAt:      now,
			Year:           now.Year(),
			SequenceNumber: b.sequence(),
		})
	} else {
		receipt.RegistrationReceipts = append(receipt.RegistrationReceipts, archive.RegistrationReceipt{
			SystemID:       b.newID(),
			Year:           now.Year(),
			SequenceNumber: b.sequence(),
			ItemNumber:     b.item(),
		})
	}

	payload, err := marshalPayload(receipt)
	if err != nil {
		return nil, fmt.Errorf("build submission receipt: %w", err)
	}

	return []archive.ReplyMessage{
		{Type: archive.TypeSubmissionReceived},
		{
			Type:     archive.TypeSubmissionReceipt,
			Payload:  payload,
			Filename: submissionReceiptFilename,
		},
	}, nil
}

// UpdateReplies builds the ordered reply sequence for an accepted update: a
// received acknowledgement followed by a payload-free update receipt.
func (b *Builder) UpdateReplies() []archive.ReplyMessage {
	return []archive.ReplyMessage{
		{Type: archive.TypeUpdateReceived},
		{Type: archive.TypeUpdateReceipt},
	}
}

// SearchResult builds the result reply for matched registrations at the
// requested detail level.
func (b *Builder) SearchResult(level archive.DetailLevel, hits []archive.Registration) (archive.ReplyMessage, error) {
	year := b.clock().Year()
	result := archive.SearchResult{
		Detail: level,
		Count:  len(hits),
	}
	for _, hit := range hits {
		result.Hits = append(result.Hits, searchHit(level, hit, year))
	}

	payload, err := marshalPayload(result)
	if err != nil {
		return archive.ReplyMessage{}, fmt.Errorf("build search result %s: %w", level, err)
	}

	return archive.ReplyMessage{
		Type:     level.ResultType(),
		Payload:  payload,
		Filename: fmt.Sprintf("search-result-%s.xml", level),
	}, nil
}

// LookupResult builds the result reply for one resolved registration.
func (b *Builder) LookupResult(registration archive.Registration) (archive.ReplyMessage, error) {
	payload, err := marshalPayload(archive.LookupResult{Registration: registration})
	if err != nil {
		return archive.ReplyMessage{}, fmt.Errorf("build lookup result: %w", err)
	}

	return archive.ReplyMessage{
		Type:     archive.TypeLookupResult,
		Payload:  payload,
		Filename: lookupResultFilename,
	}, nil
}

func searchHit(level archive.DetailLevel, registration archive.Registration, year int) archive.SearchHit {
	switch level {
	case archive.DetailKeys:
		return archive.SearchHit{
			SystemID:    registration.SystemID,
			ExternalKey: registration.ExternalKey,
		}
	case archive.DetailExtended:
		cloned := archive.CloneRegistration(registration)
		return archive.SearchHit{
			Title:        registration.Title,
			Year:         year,
			SystemID:     registration.SystemID,
			Registration: &cloned,
		}
	default:
		return archive.SearchHit{
			Title: registration.Title,
			Year:  year,
		}
	}
}

func marshalPayload(document any) ([]byte, error) {
	body, err := xml.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal reply payload: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}
