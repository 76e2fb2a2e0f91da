package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeSuccess     = 0
	CodeParamError  = 400
	CodeServerError = 500
)

// Business error codes. Each domain error kind maps to exactly one code so
// callers never have to decode overloaded numeric results.
const (
	CodeInvalidAmount     = 1001
	CodeAccountNotFound   = 1002
	CodeInsufficientFunds = 1003
	CodeSelfTransfer      = 1004
	CodeInvalidDateFilter = 1005
	CodeRetryLater        = 1006 // storage-transient conflict, safe to retry
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}

func BusinessError(c *gin.Context, code int, message string) {
	Error(c, code, message)
}
