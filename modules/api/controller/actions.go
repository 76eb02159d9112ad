package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tryanzu/tribunal/board/actions"
	"github.com/tryanzu/tribunal/board/content"
	"github.com/tryanzu/tribunal/deps"
)

type actionForm struct {
	CommunityID    string `json:"community_id" binding:"required"`
	ActionType     string `json:"action_type" binding:"required,oneof=remove approve"`
	TargetType     string `json:"target_type" binding:"required,oneof=post comment"`
	TargetID       string `json:"target_id" binding:"required"`
	ReportID       string `json:"report_id"`
	ReasonCategory string `json:"reason_category"`
	ReasonText     string `json:"reason_text" binding:"max=1000"`
	RemovalType    string `json:"removal_type"`
	InternalNotes  string `json:"internal_notes" binding:"max=1000"`
}

// NewAction endpoint.
func NewAction(c *gin.Context) {
	var form actionForm
	if err := c.BindJSON(&form); err != nil {
		jsonBindErr(c, http.StatusBadRequest, "Invalid moderation action, check parameters", err)
		return
	}
	a, err := actions.Create(deps.Container, principal(c), actions.Action{
		ReportID:       form.ReportID,
		CommunityID:    form.CommunityID,
		ActionType:     form.ActionType,
		Target:         content.Target{Type: form.TargetType, ID: form.TargetID},
		ReasonCategory: form.ReasonCategory,
		ReasonText:     form.ReasonText,
		RemovalType:    form.RemovalType,
		InternalNotes:  form.InternalNotes,
	})
	if err != nil {
		engineErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "okay", "action": a})
}

// Action endpoint. Moderators see the full record, the affected author a
// copy without internal notes.
func Action(c *gin.Context) {
	a, err := actions.FindId(deps.Container, c.Param("id"))
	if err != nil {
		engineErr(c, err)
		return
	}
	p := principal(c)
	permission := actions.Permission(a.Target.Type)
	switch {
	case p.Can(permission, a.CommunityID):
		c.JSON(http.StatusOK, gin.H{"status": "okay", "action": a})
	case p.ID == a.TargetAuthorID:
		c.JSON(http.StatusOK, gin.H{"status": "okay", "action": a.Public()})
	default:
		engineErr(c, p.Require(permission, a.CommunityID))
	}
}
