package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/op/go-logging"
	"github.com/tryanzu/tribunal/modules/acl"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

var log = logging.MustGetLogger("api")

func jsonErr(c *gin.Context, status int, message string) {
	// This specific json error structure is handled
	// by the frontend in a generic way so errors
	// can be shown to the user and also translated.
	c.AbortWithStatusJSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}

func jsonDetailedErr(c *gin.Context, status int, message string, details gin.H) {
	c.AbortWithStatusJSON(status, gin.H{
		"status":  "error",
		"message": message,
		"details": details,
	})
}

func jsonBindErr(c *gin.Context, status int, message string, bindErr error) {
	var verrs validator.ValidationErrors
	if !errors.As(bindErr, &verrs) {
		jsonDetailedErr(c, status, message, gin.H{"reason": bindErr.Error()})
		return
	}
	fields := []gin.H{}
	for _, fe := range verrs {
		fields = append(fields, gin.H{"field": fe.Field(), "rule": fe.Tag(), "param": fe.Param()})
	}
	jsonDetailedErr(c, status, message, gin.H{"fields": fields})
}

// engineErr answers with the status matching the error kind.
func engineErr(c *gin.Context, err error) {
	var (
		validation *exceptions.ValidationError
		forbidden  *exceptions.ForbiddenError
		notFound   *exceptions.NotFoundError
		duplicate  *exceptions.DuplicateAppealError
		conflict   *exceptions.ConflictError
		sideEffect *exceptions.SideEffectError
	)
	switch {
	case errors.As(err, &validation):
		jsonDetailedErr(c, http.StatusBadRequest, err.Error(), gin.H{"field": validation.Field, "reason": validation.Reason})
	case errors.As(err, &forbidden):
		jsonDetailedErr(c, http.StatusForbidden, err.Error(), gin.H{"permission": forbidden.Permission, "community_id": forbidden.CommunityID})
	case errors.As(err, &notFound):
		jsonDetailedErr(c, http.StatusNotFound, err.Error(), gin.H{"kind": notFound.Kind, "id": notFound.ID})
	case errors.As(err, &duplicate):
		jsonDetailedErr(c, http.StatusConflict, err.Error(), gin.H{"subject_id": duplicate.SubjectID, "open_appeal_id": duplicate.OpenAppealID})
	case errors.As(err, &conflict):
		jsonDetailedErr(c, http.StatusConflict, err.Error(), gin.H{"current": conflict.Current, "attempted": conflict.Attempted})
	case errors.As(err, &sideEffect):
		jsonDetailedErr(c, http.StatusBadGateway, err.Error(), gin.H{"appeal_id": sideEffect.AppealID, "effect": sideEffect.Effect})
	default:
		log.Errorf("[%s %s] %v", c.Request.Method, c.FullPath(), err)
		jsonErr(c, http.StatusInternalServerError, "Internal server error")
	}
}

func principal(c *gin.Context) *acl.Principal {
	return c.MustGet("principal").(*acl.Principal)
}
