// Package handler 提供 HTTP 请求处理器
// 本文件处理求助请求及其状态流转
package handler

import (
	"carematch_server/internal/dto/request"
	"carematch_server/internal/dto/respond"
	"carematch_server/internal/service"
	"carematch_server/internal/service/lifecycle"
	"carematch_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

var errInvalidRequestID = errorx.New(errorx.CodeInvalidParam, "Invalid request id.")

// RequestHandler 求助请求处理器
type RequestHandler struct {
	requestSvc   service.RequestService
	lifecycleSvc service.LifecycleService
}

func NewRequestHandler(requestSvc service.RequestService, lifecycleSvc service.LifecycleService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc, lifecycleSvc: lifecycleSvc}
}

// Create 发布求助
// POST /api/requests
// 请求体: request.CreateHelpRequest
// 响应: 201 { id }
func (h *RequestHandler) Create(c *gin.Context) {
	var req request.CreateHelpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	id, err := h.requestSvc.Create(currentIdentity(c).ID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, respond.CreatedRespond{ID: id})
}

// List 查询请求
// GET /api/requests?region=&topic=&category=&help_type=&status=&mine=1
func (h *RequestHandler) List(c *gin.Context) {
	var q request.ListHelpRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		HandleParamError(c, err)
		return
	}
	list, err := h.requestSvc.List(currentIdentity(c), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, list)
}

// SetStatus 修改状态
// PATCH /api/requests/:id/status
func (h *RequestHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		HandleError(c, errInvalidRequestID)
		return
	}
	var req request.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	status, err := h.requestSvc.SetStatus(c.Request.Context(), id, currentIdentity(c), req.Status)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.StatusRespond{Status: status})
}

// Contact 志愿者认领并联系发布者
// POST /api/requests/:id/contact
// 请求体: request.ContactOwnerRequest
// 响应: { status: "in_progress" }
func (h *RequestHandler) Contact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		HandleError(c, errInvalidRequestID)
		return
	}
	var req request.ContactOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	payload, err := lifecycle.NewContactPayload(req.Name, req.Email, req.Phone, req.Message)
	if err != nil {
		HandleError(c, err)
		return
	}
	status, err := h.lifecycleSvc.Claim(c.Request.Context(), id, currentIdentity(c), payload)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.StatusRespond{Status: status})
}

// Accept 接受认领
// POST /api/requests/:id/accept
// 响应: { status: "closed" }
func (h *RequestHandler) Accept(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		HandleError(c, errInvalidRequestID)
		return
	}
	status, err := h.lifecycleSvc.Accept(c.Request.Context(), id, currentIdentity(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.StatusRespond{Status: status})
}

// Reject 拒绝认领
// POST /api/requests/:id/reject
// 响应: { status: "open" }
func (h *RequestHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		HandleError(c, errInvalidRequestID)
		return
	}
	status, err := h.lifecycleSvc.Reject(c.Request.Context(), id, currentIdentity(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.StatusRespond{Status: status})
}
