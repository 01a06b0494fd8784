package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fieldimport/internal/auth"
	"fieldimport/internal/field"
)

type fakeTokens struct {
	calls int
	err   error
}

func (f *fakeTokens) HeaderValue(ctx context.Context) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "Bearer tok", nil
}

type fakeCreator struct {
	labels  []string
	headers []string
	failOn  map[string]error
}

func (f *fakeCreator) CreateField(ctx context.Context, fld field.Field, authHeader string) error {
	f.labels = append(f.labels, fld.Label)
	f.headers = append(f.headers, authHeader)
	if err, ok := f.failOn[fld.Label]; ok {
		return err
	}
	return nil
}

func makeFields(n int) []field.Field {
	fields := make([]field.Field, n)
	for i := range fields {
		fields[i] = field.Field{
			Name:  fmt.Sprintf("f%d", i),
			Label: fmt.Sprintf("Field %d", i),
		}
	}
	return fields
}

func TestRun_AllSucceed(t *testing.T) {
	tokens := &fakeTokens{}
	creator := &fakeCreator{}
	fields := makeFields(3)

	report, err := New(tokens, creator, nil).Run(context.Background(), fields)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Successes) != 3 || len(report.Failures) != 0 {
		t.Errorf("report = %d successes, %d failures, want 3 and 0",
			len(report.Successes), len(report.Failures))
	}
}

// A single failing field is recorded, and every other field is still
// attempted: failures never short-circuit the run.
func TestRun_FailureDoesNotAbort(t *testing.T) {
	tokens := &fakeTokens{}
	creator := &fakeCreator{failOn: map[string]error{
		"Field 1": errors.New("status 422"),
	}}
	fields := makeFields(4)

	report, err := New(tokens, creator, nil).Run(context.Background(), fields)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(creator.labels) != 4 {
		t.Errorf("attempted = %d, want 4 (no short-circuit)", len(creator.labels))
	}
	if len(report.Successes) != 3 {
		t.Errorf("successes = %d, want 3", len(report.Successes))
	}
	if len(report.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(report.Failures))
	}
	if report.Failures[0].Label != "Field 1" {
		t.Errorf("failure label = %q, want %q", report.Failures[0].Label, "Field 1")
	}
	if report.Attempted() != 4 {
		t.Errorf("Attempted() = %d, want 4", report.Attempted())
	}
}

func TestRun_PreservesOrder(t *testing.T) {
	tokens := &fakeTokens{}
	creator := &fakeCreator{}
	fields := makeFields(5)

	if _, err := New(tokens, creator, nil).Run(context.Background(), fields); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, label := range creator.labels {
		want := fmt.Sprintf("Field %d", i)
		if label != want {
			t.Errorf("submission %d = %q, want %q", i, label, want)
		}
	}
}

// The token is re-obtained for every field, not cached at the pipeline
// level, so a mid-run expiry is healed before the next submission.
func TestRun_TokenCheckedPerField(t *testing.T) {
	tokens := &fakeTokens{}
	creator := &fakeCreator{}
	fields := makeFields(6)

	if _, err := New(tokens, creator, nil).Run(context.Background(), fields); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if tokens.calls != 6 {
		t.Errorf("token source calls = %d, want 6", tokens.calls)
	}
}

// Rejected credentials are fatal: the run stops with the partial report.
func TestRun_InvalidCredentialsAborts(t *testing.T) {
	tokens := &fakeTokens{err: &auth.Error{Kind: auth.KindInvalidCredentials}}
	creator := &fakeCreator{}
	fields := makeFields(3)

	report, err := New(tokens, creator, nil).Run(context.Background(), fields)
	if !auth.IsInvalidCredentials(err) {
		t.Fatalf("Run() error = %v, want invalid credentials", err)
	}
	if report.Attempted() != 0 {
		t.Errorf("Attempted() = %d, want 0", report.Attempted())
	}
	if len(creator.labels) != 0 {
		t.Errorf("submissions = %d, want 0", len(creator.labels))
	}
}

// Other token failures count against the field and the run continues.
func TestRun_TransientTokenErrorRecorded(t *testing.T) {
	tokens := &fakeTokens{err: &auth.Error{Kind: auth.KindNetwork, Detail: "timeout"}}
	creator := &fakeCreator{}
	fields := makeFields(2)

	report, err := New(tokens, creator, nil).Run(context.Background(), fields)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Failures) != 2 {
		t.Errorf("failures = %d, want 2", len(report.Failures))
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeTokens{}, &fakeCreator{}, nil).Run(ctx, makeFields(2))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
