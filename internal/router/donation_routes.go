package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterDonationRoutes 游客捐赠，无需登录
func (rt *Router) RegisterDonationRoutes(rg *gin.RouterGroup) {
	donationGroup := rg.Group("/guest-donations")
	{
		donationGroup.POST("", rt.handlers.Donation.CreateGuest)
		donationGroup.GET("/stats", rt.handlers.Donation.Stats)
	}
}
