package ports

import (
	"context"
	"time"
)

// AuthEventKind labels an entry in the auth audit trail.
type AuthEventKind string

const (
	AuthEventRegistered  AuthEventKind = "registered"
	AuthEventLoginOK     AuthEventKind = "login_ok"
	AuthEventLoginFailed AuthEventKind = "login_failed"
)

// AuthEventInput is one audit record queued for asynchronous persistence.
type AuthEventInput struct {
	Kind       AuthEventKind
	Email      string
	SubjectID  string
	OccurredAt time.Time
}

// AuthEventRepository persists audit records.
type AuthEventRepository interface {
	Insert(ctx context.Context, event AuthEventInput) error
}

// AuthEventSink accepts audit records for eventual persistence. Enqueueing is
// best-effort; a full queue drops the record rather than blocking a login.
type AuthEventSink interface {
	Enqueue(event AuthEventInput)
}
