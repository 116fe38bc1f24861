package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeAuthRequired, fiber.StatusUnauthorized},
		{CodeUserNotFound, fiber.StatusNotFound},
		{CodeReceiverNotFound, fiber.StatusNotFound},
		{CodeForbidden, fiber.StatusForbidden},
		{CodeInvalidOperation, fiber.StatusUnprocessableEntity},
		{CodeAlreadyHandled, fiber.StatusConflict},
		{CodeEmptyContent, fiber.StatusBadRequest},
		{CodeSendFailed, fiber.StatusInternalServerError},
		{Code("BOGUS"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.code); got != tc.want {
			t.Errorf("Status(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestErrorWrapsAndUnwraps(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(CodeEmptyContent, "message needs content"))

	appErr := &Error{}
	if !errors.As(err, &appErr) {
		t.Fatal("expected errors.As to find *Error")
	}
	if appErr.Code != CodeEmptyContent {
		t.Errorf("expected EMPTY_CONTENT, got %s", appErr.Code)
	}
	if appErr.Error() != "EMPTY_CONTENT: message needs content" {
		t.Errorf("unexpected error text %q", appErr.Error())
	}
}
