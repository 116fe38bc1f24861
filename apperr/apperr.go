package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Code is the closed set of error codes the API can return. Every handler
// maps failures through this enum; there are no ad hoc per-endpoint strings.
type Code string

const (
	CodeAuthRequired         Code = "AUTH_REQUIRED"
	CodeValidation           Code = "VALIDATION_ERROR"
	CodeInvalidUsername      Code = "INVALID_USERNAME"
	CodeEmptyContent         Code = "EMPTY_CONTENT"
	CodeUserNotFound         Code = "USER_NOT_FOUND"
	CodeSenderNotFound       Code = "SENDER_NOT_FOUND"
	CodeReceiverNotFound     Code = "RECEIVER_NOT_FOUND"
	CodeConversationNotFound Code = "CONVERSATION_NOT_FOUND"
	CodeMessageNotFound      Code = "MESSAGE_NOT_FOUND"
	CodeRequestNotFound      Code = "REQUEST_NOT_FOUND"
	CodeInvalidOperation     Code = "INVALID_OPERATION"
	CodeForbidden            Code = "FORBIDDEN"
	CodeAlreadyHandled       Code = "ALREADY_HANDLED"
	CodeSendFailed           Code = "SEND_FAILED"
	CodeInternal             Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeAuthRequired:         fiber.StatusUnauthorized,
	CodeValidation:           fiber.StatusBadRequest,
	CodeInvalidUsername:      fiber.StatusBadRequest,
	CodeEmptyContent:         fiber.StatusBadRequest,
	CodeUserNotFound:         fiber.StatusNotFound,
	CodeSenderNotFound:       fiber.StatusNotFound,
	CodeReceiverNotFound:     fiber.StatusNotFound,
	CodeConversationNotFound: fiber.StatusNotFound,
	CodeMessageNotFound:      fiber.StatusNotFound,
	CodeRequestNotFound:      fiber.StatusNotFound,
	CodeInvalidOperation:     fiber.StatusUnprocessableEntity,
	CodeForbidden:            fiber.StatusForbidden,
	CodeAlreadyHandled:       fiber.StatusConflict,
	CodeSendFailed:           fiber.StatusInternalServerError,
	CodeInternal:             fiber.StatusInternalServerError,
}

// Status returns the HTTP status a code is rendered with.
func Status(code Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// Error is a typed failure carrying a code from the closed enum.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Respond converts any error into the failure envelope. Errors that are not
// *Error are reported as INTERNAL_ERROR without leaking their text.
func Respond(c *fiber.Ctx, err error) error {
	appErr := &Error{}
	if !errors.As(err, &appErr) {
		appErr = New(CodeInternal, "internal server error")
	}
	return c.Status(Status(appErr.Code)).JSON(fiber.Map{
		"success": false,
		"error":   appErr.Message,
		"code":    appErr.Code,
	})
}

// OK renders the success envelope.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
