package util

import (
	"errors"
	"net/http"

	"predict_earn_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// MapServiceError 把领域错误映射为对应的 HTTP 响应
func MapServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrQuestionNotFound),
		errors.Is(err, ErrPredictionNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrPermissionDenied):
		Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrAlreadyCheckedIn),
		errors.Is(err, ErrSkipLimitReached),
		errors.Is(err, ErrPredictionClosed),
		errors.Is(err, ErrAlreadyWon),
		errors.Is(err, ErrReferralCodeTaken),
		errors.Is(err, ErrReferralCodeSet):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInsufficientPoints),
		errors.Is(err, ErrWrongAnswer),
		errors.Is(err, ErrReferralCodeShort),
		errors.Is(err, ErrInvalidReferral),
		errors.Is(err, ErrEmailRegistered):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDecryption):
		// 不向调用方暴露密文或密钥相关细节
		logger.Log.Error("answer decryption failed", zap.Error(err))
		InternalServerError(c)
	default:
		LogInternalError(c, err)
	}
}
