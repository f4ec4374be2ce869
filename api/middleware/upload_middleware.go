package middleware

import (
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/api/common"
	"github.com/shareplaces/backend/internal/janitor"
	"github.com/shareplaces/backend/utils/validator"
)

const ContextUploadedFileKey = "uploaded_file"

// UploadedFile 请求范围内的上传暂存文件，从不持久化。
// 编排器调用 Claim 接管清理责任，未被接管的文件在请求结束后由中间件释放。
type UploadedFile struct {
	Path         string
	OriginalName string
	MimeType     string
	Extension    string
	Size         int64
	Width        int
	Height       int

	claimed bool
}

// Claim 将临时文件的清理责任转移给调用方
func (f *UploadedFile) Claim() {
	f.claimed = true
}

// BufferUpload 将 multipart 表单中的文件落盘到临时目录。
// 字段缺失不视为错误，是否必需由 handler 决定。
// 超限或非图片类型直接以 422 终止，此时不会产生临时文件残留。
func BufferUpload(field string, maxSize int64, jan *janitor.Janitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile(field)
		if err != nil {
			// 无文件，交给 handler 判断
			c.Next()
			return
		}

		if fileHeader.Size > maxSize {
			common.RespondError(c, http.StatusUnprocessableEntity, "Invalid input/file size")
			c.Abort()
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			common.RespondError(c, http.StatusInternalServerError, "Failed to read uploaded file")
			c.Abort()
			return
		}
		defer src.Close()

		// 以前 512 字节判定类型，不信任客户端声明的 Content-Type
		head := make([]byte, 512)
		n, err := io.ReadFull(src, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			common.RespondError(c, http.StatusInternalServerError, "Failed to read uploaded file")
			c.Abort()
			return
		}
		head = head[:n]

		isImage, mimeType := validator.IsImageBytes(head)
		if !isImage {
			common.RespondError(c, http.StatusUnprocessableEntity, "Invalid image type")
			c.Abort()
			return
		}
		ext, _ := validator.ExtensionForMime(mimeType)

		tempFile, err := os.CreateTemp(jan.TempDir(), "upload-*")
		if err != nil {
			common.RespondError(c, http.StatusInternalServerError, "Failed to buffer uploaded file")
			c.Abort()
			return
		}

		_, copyErr := tempFile.Write(head)
		if copyErr == nil {
			_, copyErr = io.Copy(tempFile, src)
		}
		closeErr := tempFile.Close()
		if copyErr != nil || closeErr != nil {
			jan.Release(tempFile.Name())
			common.RespondError(c, http.StatusInternalServerError, "Failed to buffer uploaded file")
			c.Abort()
			return
		}

		// 文件头可以伪造，落盘后再解码一次确认真的是图片
		width, height, err := probeDimensions(tempFile.Name())
		if err != nil {
			jan.Release(tempFile.Name())
			common.RespondError(c, http.StatusInternalServerError, "Failed to buffer uploaded file")
			c.Abort()
			return
		}
		if width == 0 || height == 0 {
			jan.Release(tempFile.Name())
			common.RespondError(c, http.StatusUnprocessableEntity, "Invalid image type")
			c.Abort()
			return
		}

		uploaded := &UploadedFile{
			Path:         tempFile.Name(),
			OriginalName: fileHeader.Filename,
			MimeType:     mimeType,
			Extension:    ext,
			Size:         fileHeader.Size,
			Width:        width,
			Height:       height,
		}
		c.Set(ContextUploadedFileKey, uploaded)

		// defer 保证 handler panic 时暂存文件同样被释放
		defer func() {
			if !uploaded.claimed {
				jan.Release(uploaded.Path)
			}
		}()

		c.Next()
	}
}

// probeDimensions 解码暂存文件的图片尺寸，解码失败返回 0,0
func probeDimensions(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()
	width, height := validator.ImageDimensions(file)
	return width, height, nil
}

// UploadedFileFrom 取出当前请求的暂存文件
func UploadedFileFrom(c *gin.Context) (*UploadedFile, bool) {
	value, exists := c.Get(ContextUploadedFileKey)
	if !exists {
		return nil, false
	}
	file, ok := value.(*UploadedFile)
	return file, ok
}
