package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"pilot-bidding-api/internal/common"
	"pilot-bidding-api/internal/entity"
	"pilot-bidding-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

type invitationRoutesHandler struct {
	invitationService service.Invitation
	bidService        service.Bid
	validate          *validator.Validate
	log               *slog.Logger
}

func newInvitationRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, log *slog.Logger) *invitationRoutesHandler {
	h := &invitationRoutesHandler{
		invitationService: services.Invitation,
		bidService:        services.Bid,
		validate:          v,
		log:               log,
	}
	outer.GET("/pilot-invites/:token", h.GetInvitation)
	outer.POST("/pilot-invites/:token/bid", h.PostBid)
	outer.POST("/pilot-invites/:token/bid/", h.PostBid)

	return h
}

type postBidInput struct {
	PriceAmount *decimal.Decimal `json:"price_amount" validate:"required"`
	Currency    string           `json:"currency" validate:"required"`
	EtaDays     *int             `json:"eta_days" validate:"required"`
	Notes       *string          `json:"notes"`
}

type postBidResponse struct {
	InviteStatus string                 `json:"invite_status"`
	Bid          *entity.BidOutputModel `json:"bid"`
}

type conflictResponse struct {
	Error string                 `json:"error"`
	Bid   *entity.BidOutputModel `json:"bid"`
}

// /pilot-invites/:token
func (h *invitationRoutesHandler) GetInvitation(c echo.Context) error {
	const op = "controller.GetInvitation"

	view, err := h.invitationService.GetInvitationByToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		return h.writeError(c, op, err)
	}

	return c.JSON(http.StatusOK, view)
}

// /pilot-invites/:token/bid/
func (h *invitationRoutesHandler) PostBid(c echo.Context) error {
	const op = "controller.PostBid"

	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxBodyBytes)

	var input postBidInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	model := &entity.SubmitBidInput{
		PriceAmount: *input.PriceAmount,
		Currency:    input.Currency,
		EtaDays:     *input.EtaDays,
		Notes:       input.Notes,
	}

	bid, err := h.bidService.SubmitBid(c.Request().Context(), c.Param("token"), model)
	if err != nil {
		return h.writeError(c, op, err)
	}

	return c.JSON(http.StatusCreated, postBidResponse{InviteStatus: common.InviteBidSubmitted, Bid: bid})
}

func (h *invitationRoutesHandler) writeError(c echo.Context, op string, err error) error {
	var (
		validationErr *service.ValidationError
		conflictErr   *service.BidConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, errorResponse{validationErr.Error()})
	case errors.As(err, &conflictErr):
		return c.JSON(http.StatusConflict, conflictResponse{
			Error: "A bid has already been submitted for this invitation",
			Bid:   conflictErr.Bid,
		})
	case errors.Is(err, service.ErrInvitationNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"Invitation not found"})
	case errors.Is(err, service.ErrInvitationExpired):
		return c.JSON(http.StatusGone, errorResponse{"This invitation has expired"})
	case errors.Is(err, service.ErrInvitationWithdrawn):
		return c.JSON(http.StatusGone, errorResponse{"This invitation has been withdrawn"})
	}

	loggerFrom(c, h.log).Error("request failed", slog.String("op", op), slog.String("error", err.Error()))

	return c.JSON(http.StatusInternalServerError, errorResponse{"Internal error"})
}
