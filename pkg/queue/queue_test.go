package queue

import (
	"testing"
	"time"
)

func TestNewEventHeaderDefaults(t *testing.T) {
	hdr := NewEventHeader(TopicFileUploaded)

	if hdr.Topic != TopicFileUploaded {
		t.Fatalf("expected topic %q, got %q", TopicFileUploaded, hdr.Topic)
	}

	if hdr.Version != PayloadVersionV1 {
		t.Fatalf("expected version %q, got %q", PayloadVersionV1, hdr.Version)
	}

	if hdr.OccurredAt.IsZero() {
		t.Fatal("expected occurred_at to be set")
	}

	if hdr.OccurredAt.Location() != time.UTC {
		t.Fatalf("expected occurred_at in UTC, got %v", hdr.OccurredAt.Location())
	}
}

func TestWatermillMessageRoundTrip(t *testing.T) {
	expires := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	payload := FileUploadedPayload{
		File: FileRef{
			ID:       "a1b2c3d4",
			FileName: "report.pdf",
			Size:     42,
			MimeType: "application/pdf",
			IsPublic: true,
		},
		ExpiresAt: expires,
	}

	msg, err := NewWatermillMessage(TopicFileUploaded, payload,
		WithProducer("proximashare"), WithTraceID("trace-123"))
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	if msg.UUID == "" {
		t.Fatal("expected non-empty message id")
	}

	for key, want := range map[string]string{
		"topic":    TopicFileUploaded,
		"producer": "proximashare",
		"trace_id": "trace-123",
		"version":  PayloadVersionV1,
	} {
		if got := msg.Metadata.Get(key); got != want {
			t.Errorf("metadata %q: expected %q, got %q", key, want, got)
		}
	}

	env, err := ParseFileUploaded(msg)
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}

	if env.Header.Topic != TopicFileUploaded || env.Header.Producer != "proximashare" {
		t.Fatalf("unexpected header: %+v", env.Header)
	}

	if env.Payload.File.ID != payload.File.ID {
		t.Fatalf("expected file id %q, got %q", payload.File.ID, env.Payload.File.ID)
	}

	if !env.Payload.ExpiresAt.Equal(expires) {
		t.Fatalf("expected expires_at %v, got %v", expires, env.Payload.ExpiresAt)
	}
}

func TestMessageIDsAreOrdered(t *testing.T) {
	first, err := NewWatermillMessage(TopicFileDeleted, FileDeletedPayload{File: FileRef{ID: "one"}})
	if err != nil {
		t.Fatalf("build first message: %v", err)
	}

	second, err := NewWatermillMessage(TopicFileDeleted, FileDeletedPayload{File: FileRef{ID: "two"}})
	if err != nil {
		t.Fatalf("build second message: %v", err)
	}

	// ULID 按时间（同毫秒内按熵单调）有序
	if second.UUID < first.UUID {
		t.Fatalf("expected ordered ids, got %q then %q", first.UUID, second.UUID)
	}
}
