package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tryanzu/tribunal/core/config"
	"github.com/tryanzu/tribunal/deps"
)

// ReportReasons endpoint.
func ReportReasons(c *gin.Context) {
	rules := deps.Container.Rules()
	c.JSON(http.StatusOK, gin.H{
		"status":  "okay",
		"reasons": config.Keys(rules.ReportCategories),
		"details": rules.ReportCategories,
	})
}

// BanReasons endpoint.
func BanReasons(c *gin.Context) {
	rules := deps.Container.Rules()
	c.JSON(http.StatusOK, gin.H{
		"status":  "okay",
		"reasons": config.Keys(rules.BanReasons),
		"details": rules.BanReasons,
	})
}

// AppealTypes endpoint.
func AppealTypes(c *gin.Context) {
	rules := deps.Container.Rules()
	c.JSON(http.StatusOK, gin.H{
		"status":  "okay",
		"reasons": config.Keys(rules.AppealTypes),
		"details": rules.AppealTypes,
	})
}
