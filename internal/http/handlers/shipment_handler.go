// Shipment HTTP handlers.
//
//   - POST /shipments       (split a paid order into one shipment per seller)
//   - GET  /shipments       (list visible shipments, paginated, ETag support)
//   - GET  /shipments/{id}  (detail, items limited to the shipment's seller)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// split exists for (user, key), the handler returns the shipments of that
// order and sets `Idempotency-Replayed: true`.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
	"github.com/tbourn/go-fulfillment-backend/internal/http/middleware"
	"github.com/tbourn/go-fulfillment-backend/internal/services"
)

// ScopeCreateShipments namespaces Idempotency-Key records of POST /shipments.
const ScopeCreateShipments = "shipments.create"

// HeaderReplayed marks a response served from a recorded idempotent result.
const HeaderReplayed = "Idempotency-Replayed"

//
// DTOs
//

// CreateShipmentsRequest asks for the physical items of a paid order to be
// split into one shipment per seller.
type CreateShipmentsRequest struct {
	TransactionID string                    `json:"transaction_id" binding:"required,max=64" example:"0b6f7a2e-8f4e-4f0a-9c53-3c1f2f7f9b10"`
	Recipient     domain.Recipient          `json:"recipient"`
	Shipments     []services.ShippingChoice `json:"shipments"`
}

// CreateShipmentsResponse lists the shipments created (or replayed).
type CreateShipmentsResponse struct {
	ShipmentIDs []string          `json:"shipment_ids"`
	Shipments   []domain.Shipment `json:"shipments"`
}

// ListShipmentsResponse contains a page of shipments and pagination metadata.
type ListShipmentsResponse struct {
	Shipments  []domain.Shipment `json:"shipments"`
	Pagination Pagination        `json:"pagination"`
}

// PartyRef identifies the seller side of a shipment.
type PartyRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BuyerRef identifies the buyer side of a shipment.
type BuyerRef struct {
	CustomerID    string `json:"customer_id"`
	RecipientName string `json:"recipient_name"`
}

// ShipmentDetailResponse is a shipment with its parties and the items that
// travel in it.
type ShipmentDetailResponse struct {
	Shipment domain.Shipment   `json:"shipment"`
	OrderRef string            `json:"order_ref"`
	Seller   PartyRef          `json:"seller"`
	Buyer    BuyerRef          `json:"buyer"`
	Items    []domain.LineItem `json:"items"`
}

func newCreateShipmentsResponse(list []domain.Shipment) CreateShipmentsResponse {
	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	if list == nil {
		list = []domain.Shipment{}
	}
	return CreateShipmentsResponse{ShipmentIDs: ids, Shipments: list}
}

//
// Handlers
//

// CreateShipments godoc
// @ID          createShipments
// @Summary     Split a paid order into shipments
// @Description Creates one shipment per seller that has physical items in the order, atomically.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Shipments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    handlers.CreateShipmentsRequest  true  "Recipient and per-seller shipping choices"
//
// @Success     201  {object}  handlers.CreateShipmentsResponse  "Created"
// @Success     200  {object}  handlers.CreateShipmentsResponse  "Replayed"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid choice or recipient"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse  "Order not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Order not paid or already split"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /shipments [post]
func (h *Handlers) CreateShipments(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	var req CreateShipmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "transaction_id required")
		return
	}
	txID := strings.TrimSpace(req.TransactionID)

	// Idempotency (replay path).
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.opts.Idempotency != nil {
		if resID, found, err := h.opts.Idempotency.Find(ctx, uid, ScopeCreateShipments, idemKey); err == nil && found {
			if prev, err := h.shipSvc.ForTransaction(ctx, uid, resID); err == nil {
				c.Header(HeaderReplayed, "true")
				ok(c, http.StatusOK, newCreateShipmentsResponse(prev))
				return
			}
		}
	}

	created, err := h.shipSvc.Split(ctx, uid, txID, req.Recipient, req.Shipments)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "transaction not found")
		case errors.Is(err, services.ErrTransactionNotPaid):
			fail(c, http.StatusConflict, ErrCodeNotPaid, err.Error())
		case errors.Is(err, services.ErrShipmentsExist):
			fail(c, http.StatusConflict, ErrCodeShipmentsExist, err.Error())
		case errors.Is(err, services.ErrMissingShippingChoice):
			fail(c, http.StatusBadRequest, ErrCodeMissingShipping, err.Error())
		case errors.Is(err, services.ErrInvalidShippingChoice):
			fail(c, http.StatusBadRequest, ErrCodeInvalidShipping, err.Error())
		case errors.Is(err, services.ErrInvalidRecipient):
			fail(c, http.StatusBadRequest, ErrCodeInvalidRecipient, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" && h.opts.Idempotency != nil {
		if err := h.opts.Idempotency.Save(ctx, uid, ScopeCreateShipments, idemKey, txID, http.StatusCreated); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not saved")
		}
	}

	ok(c, http.StatusCreated, newCreateShipmentsResponse(created))
}

// ListShipments godoc
// @ID          listShipments
// @Summary     List shipments visible to the caller
// @Description Returns shipments where the caller is the buyer or the seller, newest first.
// @Tags        Shipments
// @Produce     json
// @Security    BearerAuth
//
// @Param       status     query  string  false "Filter by status"  Enums(created, packed, in_transit, delivered, canceled)
// @Param       page       query  int     false "Page number"       minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"    minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListShipmentsResponse
// @Success     304  "Not modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /shipments [get]
func (h *Handlers) ListShipments(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}
	status := strings.TrimSpace(c.Query("status"))
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.shipSvc.Stats(ctx, uid, status); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"shipments:%s:%s:%d:%d:%d:%d"`, uid, status, page, pageSize, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.shipSvc.ListPage(ctx, uid, status, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidShipmentStatus):
			fail(c, http.StatusBadRequest, ErrCodeInvalidStatus, "unknown shipment status")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}
	if items == nil {
		items = []domain.Shipment{}
	}

	ok(c, http.StatusOK, ListShipmentsResponse{
		Shipments:  items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetShipment godoc
// @ID          getShipment
// @Summary     Shipment detail
// @Description Returns the shipment, its seller and buyer, and the order items shipped by that seller.
// @Description Shipments the caller neither bought nor sells are reported as not found.
// @Tags        Shipments
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Shipment ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.ShipmentDetailResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object} handlers.ErrorResponse "Shipment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /shipments/{id} [get]
func (h *Handlers) GetShipment(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	d, err := h.shipSvc.Detail(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrShipmentNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "shipment not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeLookupFailed, err.Error())
		}
		return
	}

	items := d.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	ok(c, http.StatusOK, ShipmentDetailResponse{
		Shipment: d.Shipment,
		OrderRef: d.OrderRef,
		Seller:   PartyRef{ID: d.Seller.ID, Name: d.Seller.Name},
		Buyer:    BuyerRef{CustomerID: d.BuyerID, RecipientName: d.Shipment.Recipient.Name},
		Items:    items,
	})
}
