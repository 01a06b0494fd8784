// Package importer drives the submission run: for each validated field it
// obtains a current token, submits the field, and records the outcome in an
// ImportReport. Fields are processed strictly one at a time, in input order.
package importer

import (
	"context"
	"log/slog"

	"fieldimport/internal/auth"
	"fieldimport/internal/field"
)

// TokenSource supplies a currently valid Authorization header value.
// Implemented by *auth.Client.
type TokenSource interface {
	HeaderValue(ctx context.Context) (string, error)
}

// FieldCreator submits one field to the remote endpoint.
// Implemented by *api.Client.
type FieldCreator interface {
	CreateField(ctx context.Context, f field.Field, authHeader string) error
}

// Failure records one field that could not be created.
type Failure struct {
	Label  string
	Reason string
}

// Report aggregates per-field outcomes for a run. Every field submitted
// appears in exactly one of the two lists, in submission order.
type Report struct {
	Successes []string
	Failures  []Failure
}

// Attempted returns the total number of fields submitted.
func (r Report) Attempted() int {
	return len(r.Successes) + len(r.Failures)
}

// Pipeline submits fields sequentially and aggregates the outcomes.
type Pipeline struct {
	tokens TokenSource
	api    FieldCreator
	log    *slog.Logger
}

// New creates a pipeline. A nil logger falls back to slog.Default.
func New(tokens TokenSource, api FieldCreator, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{tokens: tokens, api: api, log: log}
}

// Submit processes a single field: fetch a valid token (refreshing if the
// cached one expired), then post the field. Used directly by debug mode.
func (p *Pipeline) Submit(ctx context.Context, f field.Field) error {
	header, err := p.tokens.HeaderValue(ctx)
	if err != nil {
		return err
	}
	return p.api.CreateField(ctx, f, header)
}

// Run submits every field in order and returns a complete report. A failed
// submission is recorded and never aborts the run; token validity is
// re-checked before each field, so a token expiring mid-run is refreshed
// transparently before the next submission.
//
// The returned error is non-nil only for failures that make continuing
// pointless: rejected credentials, or a cancelled context.
func (p *Pipeline) Run(ctx context.Context, fields []field.Field) (Report, error) {
	var report Report

	for _, f := range fields {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := p.Submit(ctx, f); err != nil {
			if auth.IsInvalidCredentials(err) {
				p.log.Error("aborting run, credentials rejected", "field", f.Label)
				return report, err
			}
			p.log.Warn("field creation failed", "field", f.Label, "error", err)
			report.Failures = append(report.Failures, Failure{Label: f.Label, Reason: err.Error()})
			continue
		}

		p.log.Info("field created", "field", f.Label)
		report.Successes = append(report.Successes, f.Label)
	}

	return report, nil
}
