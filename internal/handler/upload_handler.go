package handler

import (
	"errors"
	"net/http"

	"carematch_server/internal/service"
	"carematch_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// UploadHandler 图片上传处理器
type UploadHandler struct {
	uploadSvc service.UploadService
}

func NewUploadHandler(uploadSvc service.UploadService) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc}
}

// UploadImage 上传请求配图
// POST /api/uploads/image  multipart 字段名 image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			HandleError(c, errorx.New(errorx.CodeInvalidParam, "No image uploaded."))
			return
		}
		HandleParamError(c, err)
		return
	}
	data, err := h.uploadSvc.SaveImage(currentIdentity(c).ID, file)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
