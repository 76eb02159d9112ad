package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tryanzu/tribunal/board/appeals"
	"github.com/tryanzu/tribunal/deps"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

type appealForm struct {
	ModerationActionID string `json:"moderation_action_id"`
	CommunityBanID     string `json:"community_ban_id"`
	AppealType         string `json:"appeal_type" binding:"required"`
	AppealText         string `json:"appeal_text" binding:"required,max=2000"`
}

type reviewForm struct {
	Decision    string `json:"decision" binding:"required,oneof=uphold overturn reduce"`
	Explanation string `json:"decision_explanation" binding:"required,max=2000"`
}

// NewAppeal endpoint.
func NewAppeal(c *gin.Context) {
	var form appealForm
	if err := c.BindJSON(&form); err != nil {
		jsonBindErr(c, http.StatusBadRequest, "Invalid appeal request, check parameters", err)
		return
	}
	a := appeals.Appeal{AppealType: form.AppealType, AppealText: form.AppealText}
	switch {
	case form.ModerationActionID != "" && form.CommunityBanID == "":
		a.SubjectType, a.SubjectID = appeals.ACTION_SUBJECT, form.ModerationActionID
	case form.CommunityBanID != "" && form.ModerationActionID == "":
		a.SubjectType, a.SubjectID = appeals.BAN_SUBJECT, form.CommunityBanID
	default:
		jsonErr(c, http.StatusBadRequest, "Appeal exactly one of moderation_action_id or community_ban_id")
		return
	}
	a, err := appeals.Create(deps.Container, principal(c), a)
	if err != nil {
		engineErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "okay", "appeal": a})
}

// MyAppeals lists the caller's appeals, newest first.
func MyAppeals(c *gin.Context) {
	list, err := appeals.FindByAppellant(deps.Container, principal(c).ID)
	if err != nil {
		engineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "okay", "appeals": list})
}

// Appeal endpoint.
func Appeal(c *gin.Context) {
	a, err := appeals.FindId(deps.Container, c.Param("id"))
	if err != nil {
		engineErr(c, err)
		return
	}
	if !a.Readable(principal(c)) {
		engineErr(c, exceptions.Forbidden("appeal reviewer", a.CommunityID))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "okay", "appeal": a})
}

// ClaimAppeal endpoint.
func ClaimAppeal(c *gin.Context) {
	a, err := appeals.Claim(deps.Container, principal(c), c.Param("id"))
	if err != nil {
		engineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "okay", "appeal": a})
}

// ReviewAppeal endpoint. A failed remedy does not undo the decision, so
// it is reported next to the decided appeal.
func ReviewAppeal(c *gin.Context) {
	var form reviewForm
	if err := c.BindJSON(&form); err != nil {
		jsonBindErr(c, http.StatusBadRequest, "Invalid review, check parameters", err)
		return
	}
	a, err := appeals.Review(deps.Container, principal(c), c.Param("id"), form.Decision, form.Explanation)
	if exceptions.IsSideEffect(err) {
		c.JSON(http.StatusOK, gin.H{"status": "okay", "appeal": a, "side_effect_error": err.Error()})
		return
	}
	if err != nil {
		engineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "okay", "appeal": a})
}

// EscalateAppeal endpoint.
func EscalateAppeal(c *gin.Context) {
	a, err := appeals.Escalate(deps.Container, principal(c), c.Param("id"))
	if err != nil {
		engineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "okay", "appeal": a})
}

// ApplyAppeal retries the remedy of an overturned appeal.
func ApplyAppeal(c *gin.Context) {
	a, err := appeals.Apply(deps.Container, principal(c), c.Param("id"))
	if err != nil {
		engineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "okay", "appeal": a})
}
