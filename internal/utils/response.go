package utils

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/user/vidtube/internal/apperr"
)

// Response is the envelope every API reply uses.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// Respond writes data with status and message.
func Respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// Success answers 200.
func Success(c *gin.Context, data any, message string) {
	Respond(c, http.StatusOK, data, message)
}

// Created answers 201.
func Created(c *gin.Context, data any, message string) {
	Respond(c, http.StatusCreated, data, message)
}

// Error answers with a failure envelope.
func Error(c *gin.Context, status int, message string) {
	Respond(c, status, nil, message)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized request"
	}
	Error(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong"
	}
	Error(c, http.StatusInternalServerError, message)
}

// Fail maps err onto the envelope. Internal causes are logged, never sent.
func Fail(c *gin.Context, err error) {
	e := apperr.From(err)
	if e.Status >= http.StatusInternalServerError {
		RequestLogger(c).Error("request failed", "path", c.FullPath(), "err", err)
	}
	Error(c, e.Status, e.Message)
}

// AbortWith stops the handler chain with err.
func AbortWith(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}

const loggerKey = "logger"

// SetRequestLogger stores a request-scoped logger on the context.
func SetRequestLogger(c *gin.Context, l *log.Logger) {
	c.Set(loggerKey, l)
}

// RequestLogger returns the request-scoped logger, or the default logger.
func RequestLogger(c *gin.Context) *log.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}
