package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"poolEngine/internal/engine"
	"poolEngine/internal/guard"
	"poolEngine/internal/ledger"
)

// ErrInvalidBody indicates the request body could not be parsed.
var ErrInvalidBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")

// ErrAmountRequired is returned when a required amount field is missing.
var ErrAmountRequired = fiber.NewError(fiber.StatusBadRequest, "amount is required")

// ErrInvalidAmountFormat is returned when an amount cannot be parsed as a
// base-10 integer.
var ErrInvalidAmountFormat = fiber.NewError(fiber.StatusBadRequest, "invalid amount format")

// ErrInvalidRole is returned for a role name outside the known set.
var ErrInvalidRole = fiber.NewError(fiber.StatusBadRequest, "invalid role")

// NewAddressRequired returns a 400 Bad Request for a missing address field.
func NewAddressRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" address is required")
}

// NewInvalidAddress returns a 400 Bad Request for an invalid address format.
func NewInvalidAddress(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" address")
}

// mapEngineError translates pool engine errors to HTTP errors.
func mapEngineError(err error) error {
	switch {
	case errors.Is(err, guard.ErrUnauthorized):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, guard.ErrPoolPaused):
		return fiber.NewError(fiber.StatusLocked, err.Error())
	case errors.Is(err, guard.ErrNotPaused),
		errors.Is(err, engine.ErrReentrancyDetected):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrTransferFailed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, engine.ErrZeroIdentity),
		errors.Is(err, engine.ErrInsufficientBaseAmount),
		errors.Is(err, engine.ErrInsufficientQuoteAmount),
		errors.Is(err, engine.ErrInsufficientSharesAmount),
		errors.Is(err, engine.ErrInsufficientSharesMinted),
		errors.Is(err, engine.ErrInvalidOutputAmount),
		errors.Is(err, ledger.ErrOverflow),
		errors.Is(err, ledger.ErrUnderflow),
		errors.Is(err, ledger.ErrInsufficientReserve),
		errors.Is(err, ledger.ErrInsufficientShares):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
