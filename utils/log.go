package utils

import (
	"strings"
	"unicode"
)

// SanitizeLogValue 过滤用户可控值中的换行和控制字符，防止日志注入
func SanitizeLogValue(value string) string {
	var sb strings.Builder
	for _, r := range value {
		if r == '\n' || r == '\r' || r == '\t' {
			sb.WriteRune(' ')
			continue
		}
		if unicode.IsPrint(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// MaskLogEmail 打码邮箱本地部分再写日志，只保留首字符和域名
func MaskLogEmail(email string) string {
	email = SanitizeLogValue(email)
	if len(email) > 254 {
		email = email[:254] + "..."
	}
	at := strings.LastIndexByte(email, '@')
	if at < 2 {
		return email
	}
	return email[:1] + "***" + email[at:]
}
