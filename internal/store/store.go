// Package store persists job records, user accounts and applications behind
// a single contract with two interchangeable backends: a PostgreSQL backend
// and a flat JSON file backend. Exactly one backend is active per deployment.
package store

import (
	"context"
	"errors"

	"github.com/mcanavci/lawjobs/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrCorrupt is returned when persisted data cannot be decoded. The
	// store never resets corrupt data to an empty set — the read fails.
	ErrCorrupt = errors.New("store data corrupt")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already in use")
)

// Store is the persistence contract shared by both backends.
//
// AppendJobDedup performs the duplicate check and the append atomically with
// respect to other writers: concurrent calls racing on the same
// (title, company) pair cannot both insert.
type Store interface {
	// ListJobs returns every stored job record. Callers must not rely on
	// any particular order; the query engine sorts on read.
	ListJobs(ctx context.Context) ([]model.JobRecord, error)

	// AppendJob inserts a record unconditionally.
	AppendJob(ctx context.Context, job model.JobRecord) error

	// AppendJobDedup inserts a record unless one with the same
	// case-insensitive (title, company) pair already exists. Reports
	// whether the record was inserted.
	AppendJobDedup(ctx context.Context, job model.JobRecord) (bool, error)

	// FindJobByID returns the record with the given id, or ErrNotFound.
	FindJobByID(ctx context.Context, id string) (model.JobRecord, error)

	// CreateUser inserts a new account, or returns ErrDuplicateEmail.
	CreateUser(ctx context.Context, user model.User) error

	// FindUserByEmail returns the account with the given email, or
	// ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (model.User, error)

	// FindUserByID returns the account with the given id, or ErrNotFound.
	FindUserByID(ctx context.Context, id string) (model.User, error)

	// CreateApplication records an application unless one already exists
	// for the same (user, job) pair. Reports whether a new application
	// was created; a repeat apply is a no-op, not an error.
	CreateApplication(ctx context.Context, app model.Application) (bool, error)
}
