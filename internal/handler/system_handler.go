package handler

import (
	"carematch_server/internal/dto/request"
	"carematch_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SystemHandler 健康检查与站点联系表单
type SystemHandler struct {
	db Pinger
}

func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health GET /api/health
func (h *SystemHandler) Health(c *gin.Context) {
	HandleSuccess(c, gin.H{"status": "ok", "message": "CareMatch backend is running"})
}

// TestDB GET /api/test-db
func (h *SystemHandler) TestDB(c *gin.Context) {
	if h.db == nil {
		HandleError(c, errorx.New(errorx.CodeDBError, "database not configured"))
		return
	}
	if err := h.db.Ping(); err != nil {
		HandleError(c, errorx.Wrap(err, errorx.CodeDBError, "ping database"))
		return
	}
	HandleSuccess(c, gin.H{"status": "ok"})
}

// Contact 站点联系表单，只记录日志
// POST /api/contact
func (h *SystemHandler) Contact(c *gin.Context) {
	var req request.SiteContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	zap.L().Info("site contact message",
		zap.String("name", req.Name),
		zap.String("email", req.Email),
		zap.Int("length", len(req.Message)),
	)
	HandleSuccess(c, gin.H{"status": "ok"})
}
