package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("invalid input")
	ErrInternal         = errors.New("unexpected error")
)

// Result is what a ban or unban hands back: *Summary or *RateLimited.
type Result interface {
	isResult()
}

// RateLimited means the operator must wait RetryAfter before the next mutation.
type RateLimited struct {
	RetryAfter time.Duration
}

func (*RateLimited) isResult() {}

// Seconds rounds the wait up to whole seconds for display.
func (r *RateLimited) Seconds() int {
	s := int(r.RetryAfter / time.Second)
	if r.RetryAfter%time.Second != 0 {
		s++
	}
	return s
}

// StorageError is a failed store operation. When it follows a fan-out,
// Summary holds the platform-side outcome that was already applied.
type StorageError struct {
	Op      string
	Err     error
	Summary *Summary
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// FailedGuild is one guild that refused a fanned-out action.
type FailedGuild struct {
	GuildID   string
	GuildName string
	Err       error
}

func (f FailedGuild) Error() string {
	return fmt.Sprintf("%s (%s): %s", f.GuildName, f.GuildID, f.Reason())
}

func (f FailedGuild) Unwrap() error {
	return f.Err
}

// Reason is a short operator-facing description of the failure.
func (f FailedGuild) Reason() string {
	switch {
	case f.Err == nil:
		return "unknown error"
	case errors.Is(f.Err, ErrMissingPermissions):
		return "missing permissions"
	case errors.Is(f.Err, ErrUnknownUser):
		return "unknown user"
	case errors.Is(f.Err, ErrUnknownBan):
		return "not banned"
	case errors.Is(f.Err, ErrGuildUnavailable):
		return "guild unavailable"
	}
	return f.Err.Error()
}

// Describe turns an error into the text shown to operators. Unexpected
// errors are reported by type only.
func Describe(err error) string {
	var storageErr *StorageError
	switch {
	case errors.As(err, &storageErr):
		return "The database could not be updated. Please try again later."
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrValidation):
		return err.Error()
	}
	return ErrInternal.Error()
}
