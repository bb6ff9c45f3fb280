package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Trans 全局翻译器，InitTrans 之前为 nil
var Trans ut.Translator

// otpPattern 邮箱验证码和登录二次验证码都是 6 位数字
var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

// customMessages 自定义 tag 的提示文案，{0} 为字段名
var customMessages = map[string]map[string]string{
	"en": {
		"otp": "{0} must be the 6-digit code from the email",
	},
	"zh": {
		"otp": "{0}必须是邮件中的6位验证码",
	},
}

// InitTrans 注册 CareMatch 的校验规则并初始化翻译器
// locale 为 "en"（默认）或 "zh"，必须在处理请求之前调用
func InitTrans(locale string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	// 提示里使用 json tag（如 full_name），query 参数使用 form tag（如 help_type）
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	if err := v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		return otpPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}

	if locale != "zh" {
		locale = "en"
	}
	enT := en.New()
	uni := ut.New(enT, enT, zh.New())
	Trans, _ = uni.GetTranslator(locale)

	var err error
	if locale == "zh" {
		err = zh_translations.RegisterDefaultTranslations(v, Trans)
	} else {
		err = en_translations.RegisterDefaultTranslations(v, Trans)
	}
	if err != nil {
		return err
	}

	for tag, msg := range customMessages[locale] {
		err := v.RegisterTranslation(tag, Trans, func(tr ut.Translator) error {
			return tr.Add(tag, msg, true)
		}, func(tr ut.Translator, fe validator.FieldError) string {
			s, _ := tr.T(tag, fe.Field())
			return s
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// fieldErrors 把校验错误转成 字段名 -> 提示，如 {"code": "code must be the 6-digit code from the email"}
// 返回 nil 表示不是校验错误（如 JSON 格式错误）或翻译器未初始化
func fieldErrors(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || Trans == nil {
		return nil
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Translate(Trans)
	}
	return out
}
