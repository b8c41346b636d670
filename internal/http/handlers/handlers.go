// Package handlers exposes the fulfillment pipeline over HTTP:
//   - POST /payments/confirm        (direct confirmation from the storefront)
//   - POST /payments/notifications  (signed gateway webhook)
//   - POST /shipments               (split a paid order per seller)
//   - GET  /shipments               (list, paginated, ETag support)
//   - GET  /shipments/{id}          (detail scoped to the caller)
//   - GET  /entitlements            (digital library of the caller)
//
// Handlers are transport-thin: they bind and validate input, call the
// application services, and translate results and sentinel errors into HTTP
// responses.
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
	"github.com/tbourn/go-fulfillment-backend/internal/http/middleware"
	"github.com/tbourn/go-fulfillment-backend/internal/services"
	"github.com/tbourn/go-fulfillment-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// PaymentService applies payment outcomes reported by the storefront or the
// gateway.
type PaymentService interface {
	// ConfirmDirect marks an order paid after a client-side success report.
	ConfirmDirect(ctx context.Context, in services.ConfirmInput) (*services.ConfirmResult, error)
	// HandleWebhook verifies and applies one raw gateway notification.
	HandleWebhook(ctx context.Context, raw []byte) (*services.WebhookResult, error)
}

// ShipmentService creates and reads per-seller shipments.
type ShipmentService interface {
	Split(ctx context.Context, callerID, transactionID string, recipient domain.Recipient, choices []services.ShippingChoice) ([]domain.Shipment, error)
	ForTransaction(ctx context.Context, callerID, transactionID string) ([]domain.Shipment, error)
	ListPage(ctx context.Context, callerID, status string, page, pageSize int) ([]domain.Shipment, int64, error)
	Stats(ctx context.Context, callerID, status string) (int64, *time.Time, error)
	Detail(ctx context.Context, shipmentID, callerID string) (*services.ShipmentDetail, error)
}

// EntitlementService lists the digital products a customer owns.
type EntitlementService interface {
	ListPage(ctx context.Context, customerID string, page, pageSize int) ([]domain.Entitlement, int64, error)
}

// IdempotencyStore remembers the resource produced by an unsafe request so a
// retry with the same key can be answered without repeating side effects.
// Find returns ok=false when nothing valid is recorded.
type IdempotencyStore interface {
	Find(ctx context.Context, userID, scope, key string) (resourceID string, ok bool, err error)
	Save(ctx context.Context, userID, scope, key, resourceID string, status int) error
}

//
// Handler wiring
//

// Options carries optional handler dependencies.
type Options struct {
	// Idempotency enables Idempotency-Key replay on POST /shipments.
	Idempotency IdempotencyStore
	// DefaultLocale is used for confirmation messages when Accept-Language
	// matches nothing. Zero means English.
	DefaultLocale language.Tag
}

// Handlers groups the HTTP endpoints. It depends on service interfaces only.
type Handlers struct {
	paySvc  PaymentService
	shipSvc ShipmentService
	entSvc  EntitlementService
	opts    Options
}

// New constructs a Handlers bound to the given services.
func New(paySvc PaymentService, shipSvc ShipmentService, entSvc EntitlementService, opts Options) *Handlers {
	if opts.DefaultLocale == language.Und {
		opts.DefaultLocale = language.English
	}
	return &Handlers{paySvc: paySvc, shipSvc: shipSvc, entSvc: entSvc, opts: opts}
}

// userID returns the authenticated user id set by middleware.Auth, or ""
// when the request is anonymous.
func userID(c *gin.Context) string {
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

//
// Shared DTOs and helpers
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page, pageSize, _ = utils.Page(
		utils.AtoiDefault(c.Query("page"), defaultPage),
		utils.AtoiDefault(c.Query("page_size"), defaultPageSize),
		defaultPageSize, maxPageSize,
	)
	return
}
