package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"disasterconnect-http-service/internal/error/code"
)

// ErrorBody is the JSON shape of every failed request
type ErrorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// Success writes data as the bare response body
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes a newly created resource
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message writes a {"message": ...} body
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Fail writes the default message of errorCode and aborts the chain
func Fail(c *gin.Context, errorCode int) {
	FailWithMessage(c, errorCode, code.GetMessage(errorCode))
}

// FailWithMessage writes a custom message for errorCode and aborts the chain
func FailWithMessage(c *gin.Context, errorCode int, message string) {
	c.AbortWithStatusJSON(code.GetStatus(errorCode), ErrorBody{
		Error: message,
		Code:  errorCode,
	})
}

// ParamError responds 400 with message
func ParamError(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrValidation)
	}
	FailWithMessage(c, code.ErrValidation, message)
}

// ServerError responds 500
func ServerError(c *gin.Context) {
	Fail(c, code.ErrUnknown)
}
