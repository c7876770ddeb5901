package handlers_fiber

import (
	"errors"
	"net/http"

	"support-desk/internal/entities"
	api "support-desk/internal/oapi"
	"support-desk/internal/transport/http/middleware"
	"support-desk/pkg/errcode"

	"github.com/gofiber/fiber/v2"
)

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := api.INTERNAL
	msg := "internal error"

	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
		code = api.INVALIDARGUMENT
		msg = err.Error()
	case errors.Is(err, entities.ErrUnauthorized):
		status = http.StatusUnauthorized
		code = api.UNAUTHORIZED
		msg = "authentication required"
	case errors.Is(err, entities.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		code = api.INVALIDCREDENTIALS
		msg = "invalid email or password"
	case errors.Is(err, entities.ErrAccountInactive):
		status = http.StatusForbidden
		code = api.ACCOUNTINACTIVE
		msg = "account is inactive"
	case errors.Is(err, entities.ErrForbidden):
		status = http.StatusForbidden
		code = api.FORBIDDEN
		msg = "access denied"
	case errors.Is(err, entities.ErrUserNotFound), errors.Is(err, entities.ErrProjectNotFound),
		errors.Is(err, entities.ErrTicketNotFound), errors.Is(err, entities.ErrAttachmentNotFound):
		status = http.StatusNotFound
		code = api.NOTFOUND
		msg = "resource not found"
	case errors.Is(err, entities.ErrUserExists):
		status = http.StatusConflict
		code = api.USEREXISTS
		msg = "email already registered"
	case errors.Is(err, entities.ErrInvalidTransition):
		status = http.StatusConflict
		code = api.INVALIDTRANSITION
		msg = err.Error()
	case errors.Is(err, entities.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
		code = api.PAYLOADTOOLARGE
		msg = err.Error()
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func errorResponse(code api.ErrorResponseErrorCode, msg string) api.ErrorResponse {
	return api.ErrorResponse{Error: struct {
		Code    api.ErrorResponseErrorCode `json:"code"`
		Message string                     `json:"message"`
	}{Code: code, Message: msg}}
}

func categoryOf(err error) errcode.Category {
	switch {
	case errors.Is(err, entities.ErrUnauthorized), errors.Is(err, entities.ErrInvalidCredentials),
		errors.Is(err, entities.ErrAccountInactive):
		return errcode.Auth
	case errors.Is(err, entities.ErrForbidden):
		return errcode.Permission
	case errors.Is(err, entities.ErrUserNotFound), errors.Is(err, entities.ErrProjectNotFound),
		errors.Is(err, entities.ErrTicketNotFound), errors.Is(err, entities.ErrAttachmentNotFound),
		errors.Is(err, entities.ErrSessionNotFound):
		return errcode.NotFound
	case errors.Is(err, entities.ErrInvalidArgument), errors.Is(err, entities.ErrTooLarge):
		return errcode.Validation
	case errors.Is(err, entities.ErrUserExists), errors.Is(err, entities.ErrInvalidTransition):
		return errcode.Conflict
	case errors.Is(err, fiber.ErrBadRequest), errors.Is(err, fiber.ErrUnprocessableEntity):
		return errcode.Transport
	}
	return errcode.Internal
}

// fail tags err for the logs and writes the mapped error response.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	errcode.Report(h.log, categoryOf(err), err)
	return writeError(c, err)
}

func (h *Handler) badBody(c *fiber.Ctx, err error) error {
	errcode.Report(h.log, errcode.Transport, err)
	return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
}

func (h *Handler) badParam(c *fiber.Ctx, name string, err error) error {
	errcode.Report(h.log, errcode.Transport, err)
	return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid parameter "+name))
}

func actor(c *fiber.Ctx) (entities.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return entities.User{}, entities.ErrUnauthorized
	}
	return user, nil
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
