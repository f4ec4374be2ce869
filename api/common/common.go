package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shareplaces/backend/internal/apperr"
)

// ResultResponse 成功响应体
type ResultResponse struct {
	Result interface{} `json:"result"`
}

// ErrorResponse 错误响应体，不暴露堆栈信息
type ErrorResponse struct {
	Message string `json:"message"`
}

// RespondResult sends a success response with the given status code.
func RespondResult(c *gin.Context, httpStatus int, result interface{}) {
	c.JSON(httpStatus, ResultResponse{Result: result})
}

// RespondCreated sends a 201 response.
func RespondCreated(c *gin.Context, result interface{}) {
	RespondResult(c, http.StatusCreated, result)
}

// RespondOK sends a 200 response.
func RespondOK(c *gin.Context, result interface{}) {
	RespondResult(c, http.StatusOK, result)
}

// RespondError sends an error response with message.
func RespondError(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorResponse{Message: message})
}

// RespondAppError 将分类错误映射为 HTTP 响应
func RespondAppError(c *gin.Context, err error) {
	RespondError(c, apperr.Status(err), apperr.MessageOf(err))
}
