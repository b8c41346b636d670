package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
)

// ListEntitlementsResponse contains a page of owned products.
type ListEntitlementsResponse struct {
	Entitlements []domain.Entitlement `json:"entitlements"`
	Pagination   Pagination           `json:"pagination"`
}

// ListEntitlements godoc
// @ID          listEntitlements
// @Summary     List the caller's digital library
// @Tags        Entitlements
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListEntitlementsResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /entitlements [get]
func (h *Handlers) ListEntitlements(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.entSvc.ListPage(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if items == nil {
		items = []domain.Entitlement{}
	}
	ok(c, http.StatusOK, ListEntitlementsResponse{
		Entitlements: items,
		Pagination:   newPagination(page, pageSize, total),
	})
}
