package validator

import (
	"image"
	"io"
	"net/http"
	"regexp"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	// webp 从移动端上传，注册解码器以便探测尺寸
	_ "golang.org/x/image/webp"
)

// allowedImageMimeTypes 头像和地点图片允许的类型
var allowedImageMimeTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/webp": "webp",
}

// IsImageBytes 检查文件头是否为允许的图片类型
func IsImageBytes(header []byte) (bool, string) {
	mimeType := http.DetectContentType(header)
	if _, ok := allowedImageMimeTypes[mimeType]; ok {
		return true, mimeType
	}
	return false, mimeType
}

// ExtensionForMime 返回 MIME 类型对应的文件扩展名
func ExtensionForMime(mimeType string) (string, bool) {
	ext, ok := allowedImageMimeTypes[mimeType]
	return ext, ok
}

// ImageDimensions 探测图片尺寸，解码失败返回 0,0
func ImageDimensions(r io.ReadSeeker) (int, int) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, 0
	}
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail 校验邮箱格式
func IsEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// IsContactNumber 校验 10 位联系电话
func IsContactNumber(contact string) bool {
	if len(contact) != 10 {
		return false
	}
	for _, r := range contact {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
