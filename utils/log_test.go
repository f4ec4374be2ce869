package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLogValue(t *testing.T) {
	// 换行被替换，伪造的日志行无法另起一行
	assert.Equal(t, "user forged: OK", SanitizeLogValue("user forged:\nOK"))
	assert.Equal(t, "a b c", SanitizeLogValue("a\rb\tc"))
	assert.Equal(t, "plain", SanitizeLogValue("pl\x00ain\x1b"))
}

func TestMaskLogEmail(t *testing.T) {
	assert.Equal(t, "a***@example.com", MaskLogEmail("alice@example.com"))

	// 本地部分过短或没有 @ 时不打码，只做清洗
	assert.Equal(t, "a@example.com", MaskLogEmail("a@example.com"))
	assert.Equal(t, "not-an-email", MaskLogEmail("not-an-email"))

	masked := MaskLogEmail("evil\nentry@example.com")
	assert.NotContains(t, masked, "\n")
	assert.True(t, strings.HasSuffix(masked, "@example.com"))

	long := strings.Repeat("x", 300) + "@example.com"
	assert.LessOrEqual(t, len(MaskLogEmail(long)), 262)
}
