package controller

import (
	"net/http"
	"strconv"

	"negotiation-api/internal/entity"
	"negotiation-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

type inquiryRoutesHandler struct {
	inquiryService service.Inquiry
	validate       *validator.Validate
}

func newInquiryRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *inquiryRoutesHandler {
	h := &inquiryRoutesHandler{inquiryService: services.Inquiry, validate: v}

	inquiries := outer.Group("/inquiries", identify(services.Identity))
	inquiries.POST("/new", h.PostInquiry)
	inquiries.GET("/my", h.GetMyInquiries)
	inquiries.GET("/:inquiryId", h.GetInquiry)
	inquiries.GET("/:inquiryId/history", h.GetHistory)
	inquiries.PUT("/:inquiryId/counter", h.Counter)
	inquiries.PUT("/:inquiryId/accept", h.Accept)
	inquiries.PUT("/:inquiryId/reject", h.Reject)
	inquiries.PUT("/:inquiryId/revive", h.Revive)
	inquiries.DELETE("/:inquiryId", h.DeleteInquiry)

	return h
}

type postInquiryInput struct {
	GigId    string          `json:"gigId" validate:"required,uuid"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Message  string          `json:"message"`
}

// /inquiries/new
func (h *inquiryRoutesHandler) PostInquiry(c echo.Context) error {
	var input postInquiryInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Input data is not formed correctly", err)
	}

	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, getAllErrorMessages(err), err)
	}

	out, err := h.inquiryService.CreateInquiry(c.Request().Context(), &entity.CreateInquiryInput{
		BuyerId:  actorId(c),
		GigId:    input.GigId,
		Price:    input.Price,
		Quantity: input.Quantity,
		Message:  input.Message,
	})
	if err != nil {
		return respondError(c, err)
	}
	if e := c.JSON(http.StatusOK, out); e != nil {
		return e
	}

	return nil
}

type getMyInquiriesInput struct {
	Role   string `query:"role" validate:"omitempty,oneof=buyer supplier"`
	Status string `query:"status" validate:"omitempty,oneof=PENDING NEGOTIATING ACCEPTED REJECTED EXPIRED"`
	Limit  int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset int32  `query:"offset" validate:"gte=0"`
}

func newGetMyInquiriesInput() getMyInquiriesInput {
	return getMyInquiriesInput{Role: string(entity.RoleBuyer), Limit: defaultLimit, Offset: defaultOffset}
}

// /inquiries/my
func (h *inquiryRoutesHandler) GetMyInquiries(c echo.Context) error {
	var input = newGetMyInquiriesInput()
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Input data is not formed correctly", err)
	}

	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, getAllErrorMessages(err), err)
	}

	inquiries, err := h.inquiryService.ListInquiries(c.Request().Context(), &entity.ListInquiriesInput{
		UserId: actorId(c),
		Role:   entity.Role(input.Role),
		Status: entity.InquiryStatus(input.Status),
		Page:   entity.NewPaginationInput(int(input.Limit), int(input.Offset)),
	})
	if err != nil {
		return respondError(c, err)
	}
	if e := c.JSON(http.StatusOK, inquiries); e != nil {
		return e
	}

	return nil
}

// /inquiries/:inquiryId
func (h *inquiryRoutesHandler) GetInquiry(c echo.Context) error {
	inquiryId := c.Param("inquiryId")
	if err := h.validate.Var(inquiryId, "required,uuid"); err != nil {
		return badRequest(c, "'inquiryId': should be a valid UUID", err)
	}

	inquiry, err := h.inquiryService.GetInquiry(c.Request().Context(), inquiryId, actorId(c))
	if err != nil {
		return respondError(c, err)
	}
	if e := c.JSON(http.StatusOK, inquiry); e != nil {
		return e
	}

	return nil
}

// /inquiries/:inquiryId/history
func (h *inquiryRoutesHandler) GetHistory(c echo.Context) error {
	inquiryId := c.Param("inquiryId")
	if err := h.validate.Var(inquiryId, "required,uuid"); err != nil {
		return badRequest(c, "'inquiryId': should be a valid UUID", err)
	}

	entries, err := h.inquiryService.GetHistory(c.Request().Context(), inquiryId, actorId(c))
	if err != nil {
		return respondError(c, err)
	}
	if e := c.JSON(http.StatusOK, entries); e != nil {
		return e
	}

	return nil
}

type counterInput struct {
	InquiryId string          `json:"-" validate:"required,uuid"`
	Round     int             `json:"round" validate:"required,min=1"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Message   string          `json:"message"`
}

// /inquiries/:inquiryId/counter
func (h *inquiryRoutesHandler) Counter(c echo.Context) error {
	var input counterInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Input data is not formed correctly", err)
	}

	input.InquiryId = c.Param("inquiryId")
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, getAllErrorMessages(err), err)
	}

	out, err := h.inquiryService.Counter(c.Request().Context(), &entity.CounterInput{
		InquiryId: input.InquiryId,
		ActorId:   actorId(c),
		Round:     input.Round,
		Price:     input.Price,
		Quantity:  input.Quantity,
		Message:   input.Message,
	})
	if err != nil {
		return respondError(c, err)
	}
	if e := c.JSON(http.StatusOK, out); e != nil {
		return e
	}

	return nil
}

type roundInput struct {
	InquiryId string `validate:"required,uuid"`
	Round     int    `validate:"required,min=1"`
}

// parseRoundInput reads the path id and the round query parameter. Action
// endpoints carry no body, so the binder is not involved.
func (h *inquiryRoutesHandler) parseRoundInput(c echo.Context) (roundInput, error) {
	input := roundInput{InquiryId: c.Param("inquiryId")}

	round, err := strconv.Atoi(c.QueryParam("round"))
	if err != nil {
		return input, badRequest(c, "'Round': should be an integer", err)
	}
	input.Round = round

	if err := h.validate.Struct(input); err != nil {
		return input, badRequest(c, getAllErrorMessages(err), err)
	}

	return input, nil
}

type action func(c echo.Context, inquiryId string, actorId string, round int) (*entity.NegotiationOutputModel, error)

func (h *inquiryRoutesHandler) runAction(c echo.Context, act action) error {
	input, err := h.parseRoundInput(c)
	if err != nil {
		return err
	}

	out, err := act(c, input.InquiryId, actorId(c), input.Round)
	if err != nil {
		return respondError(c, err)
	}
	if e := c.JSON(http.StatusOK, out); e != nil {
		return e
	}

	return nil
}

// /inquiries/:inquiryId/accept
func (h *inquiryRoutesHandler) Accept(c echo.Context) error {
	return h.runAction(c, func(c echo.Context, inquiryId string, actorId string, round int) (*entity.NegotiationOutputModel, error) {
		return h.inquiryService.Accept(c.Request().Context(), inquiryId, actorId, round)
	})
}

// /inquiries/:inquiryId/reject
func (h *inquiryRoutesHandler) Reject(c echo.Context) error {
	return h.runAction(c, func(c echo.Context, inquiryId string, actorId string, round int) (*entity.NegotiationOutputModel, error) {
		return h.inquiryService.Reject(c.Request().Context(), inquiryId, actorId, round)
	})
}

// /inquiries/:inquiryId/revive
func (h *inquiryRoutesHandler) Revive(c echo.Context) error {
	return h.runAction(c, func(c echo.Context, inquiryId string, actorId string, round int) (*entity.NegotiationOutputModel, error) {
		return h.inquiryService.Revive(c.Request().Context(), inquiryId, actorId, round)
	})
}

// /inquiries/:inquiryId
func (h *inquiryRoutesHandler) DeleteInquiry(c echo.Context) error {
	input, err := h.parseRoundInput(c)
	if err != nil {
		return err
	}

	if err := h.inquiryService.DeleteInquiry(c.Request().Context(), input.InquiryId, actorId(c), input.Round); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
