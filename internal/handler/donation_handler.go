// Package handler 提供 HTTP 请求处理器
// 本文件处理访客捐赠
package handler

import (
	"carematch_server/internal/dto/request"
	"carematch_server/internal/service"

	"github.com/gin-gonic/gin"
)

// DonationHandler 捐赠请求处理器
type DonationHandler struct {
	donationSvc service.DonationService
}

func NewDonationHandler(donationSvc service.DonationService) *DonationHandler {
	return &DonationHandler{donationSvc: donationSvc}
}

// CreateGuest 游客捐赠（演示支付，不扣款）
// POST /api/guest-donations
// 响应: 201 { donationId, status }
func (h *DonationHandler) CreateGuest(c *gin.Context) {
	var req request.GuestDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.donationSvc.CreateGuest(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// Stats 游客捐赠统计
// GET /api/guest-donations/stats
func (h *DonationHandler) Stats(c *gin.Context) {
	data, err := h.donationSvc.Stats()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
