package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tryanzu/tribunal/board/bans"
	"github.com/tryanzu/tribunal/deps"
	"github.com/tryanzu/tribunal/modules/acl"
)

type banForm struct {
	BannedMemberID string     `json:"banned_member_id" binding:"required"`
	ReasonCategory string     `json:"reason_category" binding:"required"`
	ReasonText     string     `json:"reason_text" binding:"max=1000"`
	IsPermanent    bool       `json:"is_permanent"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

// NewBan endpoint.
func NewBan(c *gin.Context) {
	var form banForm
	if err := c.BindJSON(&form); err != nil {
		jsonBindErr(c, http.StatusBadRequest, "Invalid ban request, check parameters", err)
		return
	}
	ban, err := bans.Issue(deps.Container, principal(c), bans.Ban{
		CommunityID:    c.Param("community"),
		BannedMemberID: form.BannedMemberID,
		ReasonCategory: form.ReasonCategory,
		ReasonText:     form.ReasonText,
		IsPermanent:    form.IsPermanent,
		Expires:        form.ExpirationDate,
	})
	if err != nil {
		engineErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "okay", "ban": ban})
}

// Ban endpoint, readable by community moderators and the banned member.
func Ban(c *gin.Context) {
	community := c.Param("community")
	ban, err := bans.FindId(deps.Container, c.Param("id"))
	if err == nil && ban.CommunityID != community {
		jsonErr(c, http.StatusNotFound, "community ban "+c.Param("id")+" not found")
		return
	}
	if err != nil {
		engineErr(c, err)
		return
	}
	p := principal(c)
	if p.ID != ban.BannedMemberID {
		if err := p.Require(acl.PermManageUsers, community); err != nil {
			engineErr(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "okay", "ban": ban})
}

// MemberBans lists a member's bans in the community.
func MemberBans(c *gin.Context) {
	community := c.Param("community")
	member := c.Query("member")
	p := principal(c)
	if member == "" {
		member = p.ID
	}
	if p.ID != member {
		if err := p.Require(acl.PermManageUsers, community); err != nil {
			engineErr(c, err)
			return
		}
	}
	list, err := bans.FindByMember(deps.Container, member, community)
	if err != nil {
		engineErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "okay",
		"bans":   list,
		"banned": bans.IsBanned(deps.Container, community, member),
	})
}

// LiftBan endpoint.
func LiftBan(c *gin.Context) {
	_, err := bans.Lift(deps.Container, principal(c), c.Param("community"), c.Param("id"))
	if err != nil {
		engineErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
