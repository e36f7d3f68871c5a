package common

import (
	"net/http"
	"time"

	apperrors "archive-hub/backend/common/errors"

	"github.com/gin-gonic/gin"
)

// API响应的标准格式
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// 时间格式常量
const (
	RFC3339MilliZ = "2006-01-02T15:04:05.000Z07:00"
)

// RespSuccess 响应成功，返回数据
func RespSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "",
		Data:    data,
	})
}

// RespCreated 响应创建成功 (201)
func RespCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "",
		Data:    data,
	})
}

// RespNoContent 响应成功且无响应体 (204)
func RespNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespSuccessStr 响应成功，返回消息
func RespSuccessStr(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: msg,
	})
}

// RespErrorStr 响应错误，只包含错误消息
func RespErrorStr(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: msg,
	})
}

// RespErrorFrom 根据错误码推导状态码并响应错误
func RespErrorFrom(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		SysError("request " + c.Request.Method + " " + c.Request.URL.Path + " failed: " + err.Error())
		msg = "internal server error"
	}
	c.JSON(status, APIResponse{
		Success: false,
		Message: msg,
		Code:    apperrors.CodeOf(err),
	})
}

// AbortWithError 响应错误并中止后续处理 (用于中间件)
func AbortWithError(c *gin.Context, err error) {
	RespErrorFrom(c, err)
	c.Abort()
}

// FormatTime 格式化时间为RFC3339MilliZ格式
func FormatTime(t time.Time) string {
	return t.Format(RFC3339MilliZ)
}
