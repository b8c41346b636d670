// Payment HTTP handlers.
//
// Two entry points feed the same status mapping:
//   - POST /payments/confirm        the storefront reports a gateway success
//   - POST /payments/notifications  the gateway calls back with a signed body
//
// Both answer in the envelopes their callers expect instead of ErrorResponse:
// the storefront reads {success, message, data}, the gateway reads
// {status, message}.
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
	"github.com/tbourn/go-fulfillment-backend/internal/http/middleware"
	"github.com/tbourn/go-fulfillment-backend/internal/services"
)

//
// DTOs
//

// ConfirmPaymentRequest is the storefront's report of a finished payment.
type ConfirmPaymentRequest struct {
	// OrderID is the order reference sent to the gateway.
	OrderID string `json:"order_id" binding:"required,max=64" example:"ORD-20240101-0001"`
	// Status is the client-side gateway result; only "success" is accepted.
	Status string `json:"status" binding:"required,max=32" example:"success"`
	// GrossAmount optionally carries the paid amount for cross-checking.
	GrossAmount *decimal.Decimal `json:"gross_amount,omitempty" swaggertype:"string" example:"255000.00"`
}

// ConfirmPaymentData is the payload of a successful confirmation.
type ConfirmPaymentData struct {
	OrderID     string `json:"order_id" example:"ORD-20240101-0001"`
	AlreadyPaid bool   `json:"already_paid"`
	Granted     int    `json:"granted"`
}

// ConfirmPaymentResponse is the storefront-facing envelope.
type ConfirmPaymentResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message" example:"Payment confirmed."`
	Data    *ConfirmPaymentData `json:"data,omitempty"`
}

// WebhookResponse is the gateway-facing envelope.
type WebhookResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"applied"`
}

//
// Handlers
//

// ConfirmPayment godoc
// @ID          confirmPayment
// @Summary     Confirm a payment reported by the storefront
// @Description Marks the order paid when status is "success" and grants the digital items.
// @Description Repeating the call for a paid order succeeds without changing anything.
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Accept-Language  header  string  false  "en or id"  example(id)
// @Param       body             body    handlers.ConfirmPaymentRequest  true  "Confirmation payload"
//
// @Success     200  {object}  handlers.ConfirmPaymentResponse
// @Failure     400  {object}  handlers.ConfirmPaymentResponse  "Invalid status, amount or body"
// @Failure     404  {object}  handlers.ConfirmPaymentResponse  "Order not found"
// @Failure     409  {object}  handlers.ConfirmPaymentResponse  "Order in a terminal status"
// @Failure     500  {object}  handlers.ConfirmPaymentResponse  "Internal error"
// @Router      /payments/confirm [post]
func (h *Handlers) ConfirmPayment(c *gin.Context) {
	p := printerFor(c, h.opts.DefaultLocale)

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ConfirmPaymentResponse{Message: p.Sprintf(msgInvalidRequest)})
		return
	}

	res, err := h.paySvc.ConfirmDirect(c.Request.Context(), services.ConfirmInput{
		OrderRef:    strings.TrimSpace(req.OrderID),
		Status:      strings.TrimSpace(req.Status),
		GrossAmount: req.GrossAmount,
		CallerID:    userID(c),
	})
	if err != nil {
		status, msg := http.StatusInternalServerError, p.Sprintf(msgConfirmFailed)
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			status, msg = http.StatusNotFound, p.Sprintf(msgOrderNotFound)
		case errors.Is(err, services.ErrInvalidStatus):
			status, msg = http.StatusBadRequest, p.Sprintf(msgInvalidStatus, req.Status)
		case errors.Is(err, services.ErrAmountMismatch):
			status, msg = http.StatusBadRequest, p.Sprintf(msgAmountMismatch)
		case errors.Is(err, services.ErrInvalidTransition):
			status, msg = http.StatusConflict, p.Sprintf(msgNotConfirmable)
		default:
			middleware.LoggerFrom(c).Error().Err(err).
				Str("order_ref", req.OrderID).
				Msg("direct confirmation failed")
		}
		c.AbortWithStatusJSON(status, ConfirmPaymentResponse{Message: msg})
		return
	}

	msg := p.Sprintf(msgConfirmed)
	if res.AlreadyPaid {
		msg = p.Sprintf(msgAlreadyConfirmed)
	}
	data := &ConfirmPaymentData{OrderID: res.OrderRef, AlreadyPaid: res.AlreadyPaid}
	if res.Grant != nil {
		data.Granted = len(res.Grant.Granted)
	}
	ok(c, http.StatusOK, ConfirmPaymentResponse{Success: true, Message: msg, Data: data})
}

// PaymentNotification godoc
// @ID          paymentNotification
// @Summary     Gateway payment notification
// @Description Receives the signed status callback of the payment gateway.
// @Description Verified notifications for known orders always answer 200 so the gateway stops retrying,
// @Description including duplicates, ignored regressions and unmapped statuses.
// @Tags        Payments
// @Accept      json
// @Produce     json
//
// @Param       body  body  object  true  "Gateway notification"
//
// @Success     200  {object}  handlers.WebhookResponse
// @Failure     400  {object}  handlers.WebhookResponse  "Malformed body"
// @Failure     401  {object}  handlers.WebhookResponse  "Invalid signature"
// @Failure     404  {object}  handlers.WebhookResponse  "Unknown order"
// @Failure     500  {object}  handlers.WebhookResponse  "Persistence failure, retry"
// @Router      /payments/notifications [post]
func (h *Handlers) PaymentNotification(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, WebhookResponse{Status: "error", Message: "unreadable body"})
		return
	}

	res, err := h.paySvc.HandleWebhook(c.Request.Context(), raw)
	if err != nil {
		lg := middleware.LoggerFrom(c)
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			lg.Warn().Err(err).Msg("webhook rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, WebhookResponse{Status: "error", Message: "invalid signature"})
		case errors.Is(err, services.ErrTransactionNotFound):
			lg.Warn().Err(err).Msg("webhook for unknown order")
			c.AbortWithStatusJSON(http.StatusNotFound, WebhookResponse{Status: "error", Message: "order not found"})
		case errors.Is(err, services.ErrInvalidPayload):
			lg.Warn().Err(err).Msg("webhook payload rejected")
			c.AbortWithStatusJSON(http.StatusBadRequest, WebhookResponse{Status: "error", Message: err.Error()})
		default:
			lg.Error().Err(err).Msg("webhook processing failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, WebhookResponse{Status: "error", Message: "temporary failure"})
		}
		return
	}

	msg := string(res.Outcome)
	if res.Outcome == domain.OutcomeApplied || res.Outcome == domain.OutcomeUnchanged {
		msg += ": " + string(res.Mapped)
	}
	ok(c, http.StatusOK, WebhookResponse{Status: "success", Message: msg})
}
