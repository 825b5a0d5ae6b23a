package controller

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"negotiation-api/internal/negotiation"
	"negotiation-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

const (
	defaultLimit  = 5
	defaultOffset = 0
)

type errorResponse struct {
	Reason      string `json:"reason"`
	Code        string `json:"code,omitempty"`
	OfferReason string `json:"offerReason,omitempty"`
}

func badRequest(c echo.Context, reason string, err error) error {
	if e := c.JSON(http.StatusBadRequest, errorResponse{Reason: reason, Code: "BAD_REQUEST"}); e != nil {
		return e
	}

	return err
}

// respondError writes the HTTP rendering of a service error and hands the
// error back so request logging sees it.
func respondError(c echo.Context, err error) error {
	status, body := mapError(err)
	if e := c.JSON(status, body); e != nil {
		return e
	}

	return err
}

func mapError(err error) (int, errorResponse) {
	var offerErr *negotiation.OfferError
	if errors.As(err, &offerErr) {
		return http.StatusUnprocessableEntity, errorResponse{
			Reason:      offerErr.Error(),
			Code:        "INVALID_OFFER",
			OfferReason: string(offerErr.Reason),
		}
	}

	switch {
	case errors.Is(err, negotiation.ErrNotYourTurn):
		return http.StatusConflict, errorResponse{Reason: "It is the counterparty's turn", Code: "NOT_YOUR_TURN"}
	case errors.Is(err, negotiation.ErrInvalidTransition):
		return http.StatusConflict, errorResponse{Reason: "Action is not allowed in the current inquiry status", Code: "INVALID_TRANSITION"}
	case errors.Is(err, negotiation.ErrStaleRound):
		return http.StatusConflict, errorResponse{Reason: "Inquiry has changed, reload it and retry", Code: "STALE_ROUND"}
	case errors.Is(err, negotiation.ErrInquiryExpired):
		return http.StatusGone, errorResponse{Reason: "Inquiry has expired, only revive is allowed", Code: "INQUIRY_EXPIRED"}
	case errors.Is(err, negotiation.ErrForbidden):
		return http.StatusForbidden, errorResponse{Reason: "You have no rights to perform this action", Code: "FORBIDDEN"}
	case errors.Is(err, service.ErrInquiryNotFound):
		return http.StatusNotFound, errorResponse{Reason: "There is no inquiry with given id", Code: "NOT_FOUND"}
	case errors.Is(err, service.ErrGigNotFound):
		return http.StatusNotFound, errorResponse{Reason: "There is no gig with given id", Code: "GIG_NOT_FOUND"}
	case errors.Is(err, service.ErrGigNotAvailable):
		return http.StatusConflict, errorResponse{Reason: "Gig is not accepting inquiries", Code: "GIG_NOT_AVAILABLE"}
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusUnauthorized, errorResponse{Reason: "There is no user with given username", Code: "UNAUTHORIZED"}
	}

	return http.StatusInternalServerError, errorResponse{Reason: "Internal server error", Code: "INTERNAL"}
}

func getAllErrorMessages(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	var builder strings.Builder
	for _, fe := range validationErrors {
		message := fmt.Sprintf("'%s': %s\n", fe.Field(), getMessage(fe))
		builder.WriteString(message)
	}

	return builder.String()
}

func getMessage(fe validator.FieldError) string {
	s := ""
	if fe.Type() == reflect.TypeOf(s) {
		return getMessageForString(fe)
	}

	switch fe.Type().Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return getMessageForInt(fe)
	}

	return "incorrect value passed"
}

func getMessageForInt(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	case "uuid":
		return "should be a valid UUID"
	}

	return "incorrect value passed"
}
