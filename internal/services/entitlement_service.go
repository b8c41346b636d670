// Package services – EntitlementService
//
// EntitlementService grants digital access for paid orders. Product lines
// grant their product; bundle lines are expanded to their member products.
// Every write is insert-or-ignore against a unique (customer, product) key,
// so repeated or concurrent grants for the same order converge on one
// Entitlement and one ReadingProgress per product.
package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
	"github.com/tbourn/go-fulfillment-backend/internal/repo"
	"github.com/tbourn/go-fulfillment-backend/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GrantResult reports which products a grant created and which the customer
// already owned.
type GrantResult struct {
	Granted      []string `json:"granted"`
	AlreadyOwned []string `json:"already_owned"`
}

// Total returns the number of products the grant covered.
func (r *GrantResult) Total() int { return len(r.Granted) + len(r.AlreadyOwned) }

// EntitlementService provisions entitlements and reading progress.
type EntitlementService struct {
	DB *gorm.DB
}

// Grant ensures customerID owns every product referenced by items. It is
// strictly additive and idempotent. The first persistence error aborts the
// loop and is returned; products handled before it stay granted and a retry
// completes the rest.
func (s *EntitlementService) Grant(ctx context.Context, customerID, transactionID string, items []domain.LineItem) (*GrantResult, error) {
	tr := otel.Tracer("services/EntitlementService")
	ctx, span := tr.Start(ctx, "Grant",
		trace.WithAttributes(
			attribute.String("customer.id", customerID),
			attribute.String("transaction.id", transactionID),
			attribute.Int("line_items", len(items)),
		),
	)
	defer span.End()

	productIDs, err := s.expand(ctx, items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "expand")
		return nil, err
	}

	res := &GrantResult{Granted: []string{}, AlreadyOwned: []string{}}
	for _, pid := range productIDs {
		created, err := repo.EnsureEntitlement(ctx, s.DB, customerID, pid, transactionID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "entitlement")
			return res, fmt.Errorf("grant entitlement %s: %w", pid, err)
		}
		// Ensured on every pass so an earlier partial grant gets its
		// progress row too.
		if _, err := repo.EnsureReadingProgress(ctx, s.DB, customerID, pid); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "reading_progress")
			return res, fmt.Errorf("ensure reading progress %s: %w", pid, err)
		}
		if created {
			res.Granted = append(res.Granted, pid)
			entitlementsGranted.Inc()
		} else {
			res.AlreadyOwned = append(res.AlreadyOwned, pid)
		}
	}

	span.SetAttributes(
		attribute.Int("granted", len(res.Granted)),
		attribute.Int("already_owned", len(res.AlreadyOwned)),
	)
	return res, nil
}

// expand resolves bundle lines to member products and returns the distinct
// product ids in first-seen order.
func (s *EntitlementService) expand(ctx context.Context, items []domain.LineItem) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(pid string) {
		if _, ok := seen[pid]; ok {
			return
		}
		seen[pid] = struct{}{}
		out = append(out, pid)
	}

	for _, li := range items {
		switch {
		case li.IsBundle():
			members, err := repo.BundleProductIDs(ctx, s.DB, *li.BundleID)
			if err != nil {
				return nil, fmt.Errorf("resolve bundle %s: %w", *li.BundleID, err)
			}
			if len(members) == 0 {
				log.Warn().
					Str("bundle_id", *li.BundleID).
					Str("transaction_id", li.TransactionID).
					Msg("bundle has no member products")
			}
			for _, pid := range members {
				add(pid)
			}
		case li.ProductID != nil && *li.ProductID != "":
			add(*li.ProductID)
		}
	}
	return out, nil
}

// ListPage returns a page of the customer's entitlements and the total.
func (s *EntitlementService) ListPage(ctx context.Context, customerID string, page, pageSize int) ([]domain.Entitlement, int64, error) {
	tr := otel.Tracer("services/EntitlementService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("customer.id", customerID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	_, pageSize, offset := utils.Page(page, pageSize, defaultPageSize, 0)

	total, err := repo.CountEntitlements(ctx, s.DB, customerID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Entitlement{}, 0, nil
	}
	items, err := repo.ListEntitlementsPage(ctx, s.DB, customerID, offset, pageSize)
	return items, total, err
}
