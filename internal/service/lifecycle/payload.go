package lifecycle

import (
	"strings"
	"unicode/utf8"

	"carematch_server/pkg/errorx"

	"github.com/go-playground/validator/v10"
)

const (
	minMessageLen = 5
	maxMessageLen = 2000
	maxNameLen    = 100
	maxEmailLen   = 255
	maxPhoneLen   = 30
)

var validate = validator.New()

// ContactPayload 已校验的认领联系方式
// 只能通过 NewContactPayload 构造
type ContactPayload struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// NewContactPayload 规范化并校验认领表单
// 留言必填（去掉首尾空白后 5-2000 字符），其余字段可选；邮箱统一转为小写
func NewContactPayload(name, email, phone, message string) (ContactPayload, error) {
	p := ContactPayload{
		Name:    strings.TrimSpace(name),
		Email:   strings.ToLower(strings.TrimSpace(email)),
		Phone:   strings.TrimSpace(phone),
		Message: strings.TrimSpace(message),
	}

	if n := utf8.RuneCountInString(p.Message); n < minMessageLen || n > maxMessageLen {
		return ContactPayload{}, errorx.New(errorx.CodeInvalidParam, "Invalid message.")
	}
	if utf8.RuneCountInString(p.Name) > maxNameLen {
		return ContactPayload{}, errorx.New(errorx.CodeInvalidParam, "Invalid name.")
	}
	if p.Email != "" {
		if len(p.Email) > maxEmailLen || validate.Var(p.Email, "email") != nil {
			return ContactPayload{}, errorx.New(errorx.CodeInvalidParam, "Invalid email.")
		}
	}
	if utf8.RuneCountInString(p.Phone) > maxPhoneLen {
		return ContactPayload{}, errorx.New(errorx.CodeInvalidParam, "Invalid phone.")
	}
	return p, nil
}
