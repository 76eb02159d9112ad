package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tryanzu/tribunal/board/actions"
	"github.com/tryanzu/tribunal/board/content"
	"github.com/tryanzu/tribunal/board/reports"
	"github.com/tryanzu/tribunal/deps"
)

type reportForm struct {
	TargetType  string   `json:"target_type" binding:"required,oneof=post comment"`
	TargetID    string   `json:"target_id" binding:"required"`
	CommunityID string   `json:"community_id" binding:"required"`
	Categories  []string `json:"categories" binding:"required,min=1"`
	FreeText    string   `json:"free_text" binding:"max=255"`
}

// NewReport endpoint.
func NewReport(c *gin.Context) {
	var form reportForm
	if err := c.BindJSON(&form); err != nil {
		jsonBindErr(c, http.StatusBadRequest, "Invalid report request, check parameters", err)
		return
	}
	r, err := reports.Create(deps.Container, principal(c), reports.Report{
		Target:      content.Target{Type: form.TargetType, ID: form.TargetID},
		CommunityID: form.CommunityID,
		Categories:  form.Categories,
		FreeText:    form.FreeText,
	})
	if err != nil {
		engineErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "okay", "report": r})
}

// TargetReports lists reports and moderation history of a post/comment,
// narrowed to the communities the caller moderates.
func TargetReports(c *gin.Context) {
	t := content.Target{Type: c.Param("type"), ID: c.Param("id")}
	if err := t.Validate(); err != nil {
		engineErr(c, err)
		return
	}
	list, err := reports.FindByTarget(deps.Container, t)
	if err != nil {
		engineErr(c, err)
		return
	}
	trail, err := actions.FindByTarget(deps.Container, t)
	if err != nil {
		engineErr(c, err)
		return
	}

	p := principal(c)
	permission := actions.Permission(t.Type)
	visible := []reports.Report{}
	for _, r := range list {
		if p.Can(permission, r.CommunityID) {
			visible = append(visible, r)
		}
	}
	history := []actions.Action{}
	for _, a := range trail {
		if p.Can(permission, a.CommunityID) {
			history = append(history, a)
		}
	}
	if len(list) > 0 && len(visible) == 0 {
		jsonErr(c, http.StatusForbidden, "forbidden: "+permission+" required")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "okay",
		"reports": visible,
		"actions": history,
		"pending": len(visible) > 0 && reports.HasPending(deps.Container, t),
	})
}
