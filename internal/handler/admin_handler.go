// Package handler 提供 HTTP 请求处理器
// 本文件处理管理后台请求，路由层已经做了 RequireAdmin
package handler

import (
	"carematch_server/internal/service"
	"carematch_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// AdminHandler 管理后台处理器
type AdminHandler struct {
	adminSvc service.AdminService
}

func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// Metrics 概览
// GET /api/admin/metrics
func (h *AdminHandler) Metrics(c *gin.Context) {
	data, err := h.adminSvc.Metrics()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Users 用户列表
// GET /api/admin/users
func (h *AdminHandler) Users(c *gin.Context) {
	data, err := h.adminSvc.Users()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DonationsByMonth GET /api/admin/charts/donations-by-month
func (h *AdminHandler) DonationsByMonth(c *gin.Context) {
	data, err := h.adminSvc.DonationsByMonth()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// RequestsByRegion GET /api/admin/charts/requests-by-region
func (h *AdminHandler) RequestsByRegion(c *gin.Context) {
	data, err := h.adminSvc.RequestsByRegion()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteUser 删除用户及其数据
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "Bad id."))
		return
	}
	if err := h.adminSvc.DeleteUser(currentIdentity(c).ID, id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"ok": true})
}
