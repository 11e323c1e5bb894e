// Package validation adapts the XSD engine into the simulator's validation
// boundary: a payload either decodes into a typed document or yields an
// ordered list of violation groups, never both.
package validation

import (
	"bytes"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"

	"archivesim/pkg/archive"
)

//go:embed schema/*.xsd
var schemaFS embed.FS

// Validator validates inbound payloads against schemas compiled once at
// construction and decodes valid payloads into typed documents.
// It is safe for concurrent use.
type Validator struct {
	submission *xsd.Schema
	update     *xsd.Schema
	search     *xsd.Schema
	lookup     *xsd.Schema
}

// New compiles all embedded schemas.
func New() (*Validator, error) {
	validator := &Validator{}
	for _, schema := range []struct {
		location string
		target   **xsd.Schema
	}{
		{"schema/submission.xsd", &validator.submission},
		{"schema/update.xsd", &validator.update},
		{"schema/search.xsd", &validator.search},
		{"schema/lookup.xsd", &validator.lookup},
	} {
		compiled, err := xsd.Load(schemaFS, schema.location)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", schema.location, err)
		}
		*schema.target = compiled
	}

	return validator, nil
}

// Submission validates and decodes an archive submission payload.
func (v *Validator) Submission(payload []byte) (*archive.Submission, archive.ValidationResult) {
	document := &archive.Submission{}
	if result := validate(v.submission, payload, document); !result.Valid() {
		return nil, result
	}

	return document, nil
}

// Update validates and decodes an archive update payload.
func (v *Validator) Update(payload []byte) (*archive.UpdateRequest, archive.ValidationResult) {
	document := &archive.UpdateRequest{}
	if result := validate(v.update, payload, document); !result.Valid() {
		return nil, result
	}

	return document, nil
}

// Search validates and decodes a search payload.
func (v *Validator) Search(payload []byte) (*archive.SearchRequest, archive.ValidationResult) {
	document := &archive.SearchRequest{}
	if result := validate(v.search, payload, document); !result.Valid() {
		return nil, result
	}

	return document, nil
}

// Lookup validates and decodes a lookup payload.
func (v *Validator) Lookup(payload []byte) (*archive.LookupRequest, archive.ValidationResult) {
	document := &archive.LookupRequest{}
	if result := validate(v.lookup, payload, document); !result.Valid() {
		return nil, result
	}

	return document, nil
}

func validate(schema *xsd.Schema, payload []byte, document any) archive.ValidationResult {
	if err := schema.Validate(bytes.NewReader(payload)); err != nil {
		return resultFromError(err)
	}
	if err := xml.Unmarshal(payload, document); err != nil {
		return archive.ValidationResult{{fmt.Sprintf("decode payload: %v", err)}}
	}

	return nil
}

// resultFromError flattens one validation failure into a single ordered group.
func resultFromError(err error) archive.ValidationResult {
	var list xsderrors.ValidationList
	if !errors.As(err, &list) || len(list) == 0 {
		return archive.ValidationResult{{err.Error()}}
	}

	group := make([]string, 0, len(list))
	for _, violation := range list {
		group = append(group, violationMessage(violation))
	}

	return archive.ValidationResult{group}
}

func violationMessage(violation xsderrors.Validation) string {
	if violation.Path == "" {
		return violation.Message
	}

	return fmt.Sprintf("%s: %s", violation.Path, violation.Message)
}
