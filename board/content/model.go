// Package content is the port through which the engine reads and flips
// the visibility of forum-owned posts and comments.
package content

import (
	"errors"

	"github.com/tryanzu/tribunal/modules/exceptions"
)

const (
	POST    = "post"
	COMMENT = "comment"
)

// ErrContentNotFound when the collaborator has no such post/comment.
var ErrContentNotFound = errors.New("content has not been found by given criteria")

// ErrUnavailable when the content owner cannot be reached.
var ErrUnavailable = errors.New("content service unavailable")

// Target identifies a post or comment.
type Target struct {
	Type string `json:"target_type"`
	ID   string `json:"target_id"`
}

func (t Target) String() string {
	return t.Type + ":" + t.ID
}

// Validate target type and id.
func (t Target) Validate() error {
	if t.Type != POST && t.Type != COMMENT {
		return exceptions.Invalid("targetType", "must be post or comment, got %q", t.Type)
	}
	if t.ID == "" {
		return exceptions.Invalid("targetId", "required")
	}
	return nil
}

// Port is implemented by the content owner.
type Port interface {
	// Visible reports whether the target is currently shown.
	Visible(t Target) (bool, error)
	// SetVisible flips visibility. changed is false when the target
	// already had the requested visibility.
	SetVisible(t Target, visible bool) (changed bool, err error)
	// Author of the target.
	Author(t Target) (string, error)
}
