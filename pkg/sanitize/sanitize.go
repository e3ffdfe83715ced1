// Package sanitize 清理用户提交的纯文本字段
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text 去除全部 HTML 标签并裁剪首尾空白
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
