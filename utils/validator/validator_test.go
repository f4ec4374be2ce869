package validator

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestIsImageBytes(t *testing.T) {
	ok, mimeType := IsImageBytes(pngBytes(t, 2, 2))
	assert.True(t, ok)
	assert.Equal(t, "image/png", mimeType)

	ok, mimeType = IsImageBytes([]byte("<html><body>not an image</body></html>"))
	assert.False(t, ok)
	assert.NotEqual(t, "image/png", mimeType)

	// PDF 头不属于允许的类型
	ok, _ = IsImageBytes([]byte("%PDF-1.4 fake document"))
	assert.False(t, ok)
}

func TestExtensionForMime(t *testing.T) {
	ext, ok := ExtensionForMime("image/jpeg")
	assert.True(t, ok)
	assert.Equal(t, "jpeg", ext)

	ext, ok = ExtensionForMime("image/webp")
	assert.True(t, ok)
	assert.Equal(t, "webp", ext)

	_, ok = ExtensionForMime("application/pdf")
	assert.False(t, ok)
}

func TestImageDimensions(t *testing.T) {
	data := pngBytes(t, 32, 16)
	w, h := ImageDimensions(bytes.NewReader(data))
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)

	w, h = ImageDimensions(bytes.NewReader([]byte("garbage")))
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("user@example.com"))
	assert.True(t, IsEmail("  user@example.com  "))
	assert.False(t, IsEmail("user@example"))
	assert.False(t, IsEmail("not-an-email"))
	assert.False(t, IsEmail(""))
}

func TestIsContactNumber(t *testing.T) {
	assert.True(t, IsContactNumber("0123456789"))
	assert.False(t, IsContactNumber("123456789"))   // 9 位
	assert.False(t, IsContactNumber("12345678901")) // 11 位
	assert.False(t, IsContactNumber("12345abcde"))
}
