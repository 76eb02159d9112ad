package reports

import (
	"time"

	"github.com/tryanzu/tribunal/board/content"
)

// Report represents a member flagging a post/comment. Immutable.
type Report struct {
	ID         string `json:"id"`
	ReporterID string `json:"reporter_id"`
	content.Target
	CommunityID string    `json:"community_id"`
	Categories  []string  `json:"categories"`
	FreeText    string    `json:"free_text,omitempty"`
	Created     time.Time `json:"created_at"`
}

const maxFreeText = 255

func key(id string) string {
	return "reports:" + id
}

func pendingKey(t content.Target) string {
	return "pending-report:" + t.String()
}
