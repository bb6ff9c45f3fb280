// Package internal 定义数据访问层内部共享的辅助函数，供各个 repository 子包使用
package internal

import (
	"errors"
	"fmt"

	"carematch_server/pkg/errorx"

	"gorm.io/gorm"
)

// DuplicateMsg 唯一键冲突时返回给前端的文案（重复邮箱、重复令牌）
const DuplicateMsg = "Already exists."

// WrapDBError 把 GORM 错误转换为业务错误
//   - 记录不存在：CodeNotFound，由 Service 层换成具体文案
//   - 唯一键冲突：CodeConflict，对外只给 DuplicateMsg
//   - 其他：CodeDBError，handler 会隐藏细节
func WrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return classify(err, msg)
}

// WrapDBErrorf 同 WrapDBError，支持格式化消息
func WrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return classify(err, fmt.Sprintf(format, args...))
}

func classify(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// 需要 gorm.Config.TranslateError，见 mysql.Init
		return errorx.Wrap(err, errorx.CodeConflict, DuplicateMsg)
	default:
		return errorx.Wrap(err, errorx.CodeDBError, msg)
	}
}
