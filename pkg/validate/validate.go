package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/jhappydev/gongsa-server/pkg/errors"
)

var joinCodeRe = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{4}$`)

var once sync.Once

// Register 在 gin 的绑定引擎上注册自定义规则，可重复调用
//   - 字段名取 json / form 标签，错误 location 与请求字段一致
//   - joincode: 0000-0000-0000-0000 形式的小组邀请码
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("joincode", func(fl validator.FieldLevel) bool {
			return IsJoinCode(fl.Field().String())
		})
	})
}

// IsJoinCode 校验邀请码格式
func IsJoinCode(s string) bool {
	return joinCodeRe.MatchString(s)
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// BindError 将 ShouldBind 的错误转换为 Validation 错误，location 为首个出错字段
func BindError(err error) *pkgerrors.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return pkgerrors.Validation(fe.Field(), message(fe))
	}
	return pkgerrors.Validation("body", "invalid request body")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "invalid email"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	case "joincode":
		return "code must look like 0000-0000-0000-0000"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
