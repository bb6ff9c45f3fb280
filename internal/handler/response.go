package handler

import (
	"errors"
	"net/http"

	"carematch_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResponseData 统一响应结构体
type ResponseData struct {
	Code    int    `json:"code"`    // 业务响应状态码
	Message string `json:"message"` // 提示信息
	Data    any    `json:"data"`    // 数据
}

func reply(c *gin.Context, status, code int, msg string, data any) {
	c.JSON(status, ResponseData{Code: code, Message: msg, Data: data})
}

// HandleSuccess 返回成功响应
func HandleSuccess(c *gin.Context, data any) {
	reply(c, http.StatusOK, errorx.CodeSuccess, "success", data)
}

// HandleCreated 资源创建成功，返回 201
func HandleCreated(c *gin.Context, data any) {
	reply(c, http.StatusCreated, errorx.CodeSuccess, "success", data)
}

// HandleError 通用错误处理方法
// 业务错误按错误码映射 HTTP 状态；存储层错误只记录日志，对外返回服务繁忙
func HandleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		switch codeErr.Code {
		case errorx.CodeDBError, errorx.CodeCacheError:
			zap.L().Error("storage error",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err),
			)
			reply(c, http.StatusInternalServerError, errorx.CodeServerBusy, errorx.ErrServerBusy.Msg, nil)
		default:
			reply(c, errorx.HTTPStatus(codeErr.Code), codeErr.Code, codeErr.Msg, nil)
		}
		return
	}

	// 系统错误或未知错误：记录日志并返回服务繁忙
	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	reply(c, http.StatusInternalServerError, errorx.CodeServerBusy, errorx.ErrServerBusy.Msg, nil)
}

// HandleParamError 处理参数绑定错误
// validator 错误翻译后放在 data 中，按字段给出提示
func HandleParamError(c *gin.Context, err error) {
	if fields := fieldErrors(err); fields != nil {
		reply(c, http.StatusBadRequest, errorx.CodeInvalidParam, errorx.ErrInvalidParam.Msg, fields)
		return
	}

	// 非 validator 错误（如 JSON 格式错误）
	zap.L().Debug("param bind error", zap.Error(err))
	reply(c, http.StatusBadRequest, errorx.CodeInvalidParam, errorx.ErrInvalidParam.Msg, nil)
}
