// Package exceptions holds the error taxonomy shared by every moderation
// component plus sentry panic capture.
package exceptions

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a validation error for field.
func Invalid(field, reason string, args ...interface{}) error {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	return &ValidationError{Field: field, Reason: reason}
}

// ForbiddenError means the caller lacks the role or community grant.
type ForbiddenError struct {
	Permission  string
	CommunityID string
}

func (e *ForbiddenError) Error() string {
	if e.CommunityID == "" {
		return fmt.Sprintf("forbidden: %s required", e.Permission)
	}
	return fmt.Sprintf("forbidden: %s required in community %s", e.Permission, e.CommunityID)
}

// Forbidden builds a forbidden error.
func Forbidden(permission, community string) error {
	return &ForbiddenError{Permission: permission, CommunityID: community}
}

// NotFoundError means a referenced record does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NotFound builds a not found error.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// ConflictError is an illegal state transition or a lost write race.
type ConflictError struct {
	Kind      string
	ID        string
	Current   string
	Attempted string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s: cannot move from %q to %q", e.Kind, e.ID, e.Current, e.Attempted)
}

// Conflict builds a conflict error naming both states.
func Conflict(kind, id, current, attempted string) error {
	return &ConflictError{Kind: kind, ID: id, Current: current, Attempted: attempted}
}

// DuplicateAppealError is the one-open-appeal-per-subject conflict.
type DuplicateAppealError struct {
	ConflictError
	SubjectID    string
	OpenAppealID string
}

func (e *DuplicateAppealError) Error() string {
	return fmt.Sprintf("subject %s already has open appeal %s", e.SubjectID, e.OpenAppealID)
}

func (e *DuplicateAppealError) Unwrap() error {
	return &e.ConflictError
}

// DuplicateAppeal builds a duplicate appeal error.
func DuplicateAppeal(subjectID, openAppealID, openStatus string) error {
	return &DuplicateAppealError{
		ConflictError: ConflictError{
			Kind:      "appeal",
			ID:        openAppealID,
			Current:   openStatus,
			Attempted: "pending",
		},
		SubjectID:    subjectID,
		OpenAppealID: openAppealID,
	}
}

// SideEffectError is returned when an appeal decision committed but the
// restoration or unban that follows it failed. The decision stands.
type SideEffectError struct {
	AppealID string
	Effect   string
	Err      error
}

func (e *SideEffectError) Error() string {
	return fmt.Sprintf("appeal %s decided but %s failed: %v", e.AppealID, e.Effect, e.Err)
}

func (e *SideEffectError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsForbidden reports whether err is a ForbiddenError.
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError, duplicates included.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsDuplicateAppeal reports whether err is a DuplicateAppealError.
func IsDuplicateAppeal(err error) bool {
	var target *DuplicateAppealError
	return errors.As(err, &target)
}

// IsSideEffect reports whether err is a SideEffectError.
func IsSideEffect(err error) bool {
	var target *SideEffectError
	return errors.As(err, &target)
}
