// Package apperr defines the domain error taxonomy and its mapping to
// HTTP responses. Handlers return or build these instead of raw errors
// so the boundary always emits a stable machine-readable code.
package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Kind tags a domain error class. Each kind has a fixed code and
// status.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindInvalidCredentials
	KindTokenExpired
	KindInvalidToken
	KindDuplicateResource
	KindNotFound
	KindBusinessLogic
	KindValidation
	KindRateLimited
)

var kindCodes = map[Kind]string{
	KindInternal:           "INTERNAL_ERROR",
	KindAuthentication:     "AUTHENTICATION_ERROR",
	KindInvalidCredentials: "INVALID_CREDENTIALS",
	KindTokenExpired:       "TOKEN_EXPIRED",
	KindInvalidToken:       "INVALID_TOKEN",
	KindDuplicateResource:  "DUPLICATE_RESOURCE",
	KindNotFound:           "RESOURCE_NOT_FOUND",
	KindBusinessLogic:      "BUSINESS_LOGIC_ERROR",
	KindValidation:         "VALIDATION_ERROR",
	KindRateLimited:        "RATE_LIMIT_EXCEEDED",
}

var kindStatus = map[Kind]int{
	KindInternal:           http.StatusInternalServerError,
	KindAuthentication:     http.StatusUnauthorized,
	KindInvalidCredentials: http.StatusUnauthorized,
	KindTokenExpired:       http.StatusUnauthorized,
	KindInvalidToken:       http.StatusUnauthorized,
	KindDuplicateResource:  http.StatusConflict,
	KindNotFound:           http.StatusNotFound,
	KindBusinessLogic:      http.StatusBadRequest,
	KindValidation:         http.StatusUnprocessableEntity,
	KindRateLimited:        http.StatusTooManyRequests,
}

type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// Code returns the stable machine-readable code for the error's kind
func (e *Error) Code() string {
	return kindCodes[e.Kind]
}

// Status returns the HTTP status the boundary maps this kind to
func (e *Error) Status() int {
	return kindStatus[e.Kind]
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Authentication(message string) *Error {
	return New(KindAuthentication, message)
}

func InvalidCredentials() *Error {
	return New(KindInvalidCredentials, "Invalid email/username or password")
}

func TokenExpired() *Error {
	return New(KindTokenExpired, "Token has expired")
}

func InvalidToken() *Error {
	return New(KindInvalidToken, "Invalid token")
}

func Duplicate(resource, field string) *Error {
	return &Error{
		Kind:    KindDuplicateResource,
		Message: resource + " with this " + field + " already exists",
		Details: map[string]any{"resource": resource, "field": field},
	}
}

func NotFound(resource, id string) *Error {
	msg := resource + " not found"
	if id != "" {
		msg += " with identifier: " + id
	}
	return &Error{
		Kind:    KindNotFound,
		Message: msg,
		Details: map[string]any{"resource": resource, "identifier": id},
	}
}

func BusinessLogic(message string) *Error {
	return New(KindBusinessLogic, message)
}

func Validation(message, field string) *Error {
	e := New(KindValidation, message)
	if field != "" {
		e.Details = map[string]any{"field": field}
	}
	return e
}

// Respond writes err as the response envelope. Domain errors keep
// their message and code; anything else is logged and collapsed into a
// generic 500 so raw error text never leaves the process
func Respond(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	var appErr *Error
	if errors.As(err, &appErr) {
		body := gin.H{
			"error":     appErr.Message,
			"code":      appErr.Code(),
			"requestID": requestID,
		}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}

		c.AbortWithStatusJSON(appErr.Status(), body)
		return
	}

	zap.L().Error("Unhandled error", zap.Error(err), zap.String("requestID", requestID))

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":     "Internal server error",
		"code":      kindCodes[KindInternal],
		"requestID": requestID,
	})
}
