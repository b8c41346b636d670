// Package services – PaymentService
//
// PaymentService reconciles payment outcomes against transactions. Two entry
// points reach it: ConfirmDirect, called by the buyer's client after the
// gateway reports success, and HandleWebhook, called by the gateway's
// at-least-once notification queue. Both may run concurrently for the same
// order. Status changes are compare-and-swap updates (repo.TransitionStatus),
// both paths share the mapping in package payment, and both call the
// Entitlement Granter on every paid outcome, including repeats.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
	"github.com/tbourn/go-fulfillment-backend/internal/payment"
	"github.com/tbourn/go-fulfillment-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Granter provisions entitlements for a paid order.
type Granter interface {
	Grant(ctx context.Context, customerID, transactionID string, items []domain.LineItem) (*GrantResult, error)
}

// PaymentService applies payment outcomes to transactions.
type PaymentService struct {
	DB       *gorm.DB
	Verifier *payment.Verifier
	Granter  Granter

	// Now is used for status timestamps; defaults to time.Now in UTC.
	Now func() time.Time
}

// ConfirmInput is a client-side confirmation.
type ConfirmInput struct {
	OrderRef    string
	Status      string
	GrossAmount *decimal.Decimal
	// CallerID, when set, must be the buyer.
	CallerID string
}

// directSnapshot is the payload stored with a direct confirmation.
type directSnapshot struct {
	Source      string           `json:"source"`
	OrderID     string           `json:"order_id"`
	Status      string           `json:"status"`
	GrossAmount *decimal.Decimal `json:"gross_amount,omitempty"`
}

// ConfirmResult describes a successful confirmation.
type ConfirmResult struct {
	OrderRef      string
	TransactionID string
	AlreadyPaid   bool
	Grant         *GrantResult
}

// WebhookResult describes a processed, signature-verified notification.
type WebhookResult struct {
	OrderRef      string
	TransactionID string
	Mapped        domain.TransactionStatus
	Outcome       domain.NotificationOutcome
	Grant         *GrantResult
}

func (s *PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ConfirmDirect marks the order paid when the client reports gateway success.
//
// A repeat call on an already paid order is a no-op that still succeeds and
// re-runs the idempotent grant. Any status other than "success" fails with
// ErrInvalidStatus and writes nothing.
func (s *PaymentService) ConfirmDirect(ctx context.Context, in ConfirmInput) (*ConfirmResult, error) {
	tr := otel.Tracer("services/PaymentService")
	ctx, span := tr.Start(ctx, "ConfirmDirect",
		trace.WithAttributes(
			attribute.String("order.ref", in.OrderRef),
			attribute.String("payment.status", in.Status),
		),
	)
	defer span.End()

	tx, err := repo.GetTransactionByOrderRef(ctx, s.DB, in.OrderRef)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup")
		return nil, fmt.Errorf("load transaction: %w", err)
	}
	if in.CallerID != "" && in.CallerID != tx.CustomerID {
		return nil, ErrTransactionNotFound
	}

	target, ok := payment.MapDirectStatus(in.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}
	if in.GrossAmount != nil && !in.GrossAmount.Equal(tx.Total) {
		log.Warn().
			Str("order_ref", tx.OrderRef).
			Str("gross_amount", in.GrossAmount.String()).
			Str("total", tx.Total.String()).
			Msg("direct confirmation amount mismatch")
		return nil, ErrAmountMismatch
	}

	payload, err := json.Marshal(directSnapshot{
		Source:      "direct",
		OrderID:     in.OrderRef,
		Status:      in.Status,
		GrossAmount: in.GrossAmount,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot")
		return nil, fmt.Errorf("encode confirmation: %w", err)
	}

	applied, current, err := s.transition(ctx, s.DB, tx, target, datatypes.JSON(payload))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition")
		return nil, err
	}
	if !applied && current != target {
		return nil, ErrInvalidTransition
	}
	span.SetAttributes(attribute.Bool("applied", applied))

	res := &ConfirmResult{OrderRef: tx.OrderRef, TransactionID: tx.ID, AlreadyPaid: !applied}
	if payment.Grants(target) {
		g, err := s.Granter.Grant(ctx, tx.CustomerID, tx.ID, tx.LineItems)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "grant")
			log.Error().Err(err).
				Str("order_ref", tx.OrderRef).
				Str("transaction_id", tx.ID).
				Msg("entitlement grant failed")
			return nil, err
		}
		res.Grant = g
	}
	return res, nil
}

// HandleWebhook verifies and applies one gateway notification.
//
// Errors: ErrInvalidPayload, ErrInvalidSignature and ErrTransactionNotFound
// leave no trace in the database. Every other verified notification is
// appended to the audit trail, whether or not it changes the status. Unmapped
// statuses, regressions and amount mismatches are reported through
// WebhookResult.Outcome with a nil error so the gateway stops retrying.
func (s *PaymentService) HandleWebhook(ctx context.Context, raw []byte) (*WebhookResult, error) {
	tr := otel.Tracer("services/PaymentService")
	ctx, span := tr.Start(ctx, "HandleWebhook")
	defer span.End()

	n, err := payment.ParseNotification(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	span.SetAttributes(
		attribute.String("order.ref", n.OrderID),
		attribute.String("gateway.transaction_status", n.TransactionStatus),
		attribute.String("gateway.fraud_status", n.FraudStatus),
	)
	if err := s.Verifier.Verify(n); err != nil {
		log.Warn().Str("order_ref", n.OrderID).Msg("notification signature mismatch")
		return nil, ErrInvalidSignature
	}

	tx, err := repo.GetTransactionByOrderRef(ctx, s.DB, n.OrderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup")
		return nil, fmt.Errorf("load transaction: %w", err)
	}

	res := &WebhookResult{OrderRef: tx.OrderRef, TransactionID: tx.ID}
	mapped, ok := payment.MapNotification(n.TransactionStatus, n.FraudStatus)
	res.Mapped = mapped

	audit := &domain.PaymentNotification{
		TransactionID:     tx.ID,
		OrderRef:          tx.OrderRef,
		GatewayTxID:       n.TransactionID,
		TransactionStatus: n.TransactionStatus,
		FraudStatus:       n.FraudStatus,
		StatusCode:        n.StatusCode,
		GrossAmount:       n.GrossAmount,
		MappedStatus:      mapped,
		Payload:           datatypes.JSON(n.Raw),
		ReceivedAt:        s.now(),
	}

	err = s.DB.WithContext(ctx).Transaction(func(g *gorm.DB) error {
		switch {
		case !ok:
			res.Outcome = domain.OutcomeUnmapped
		case payment.Grants(mapped) && !amountMatches(n, tx.Total):
			res.Outcome = domain.OutcomeAmountMismatch
		default:
			applied, current, err := s.transition(ctx, g, tx, mapped, datatypes.JSON(n.Raw))
			if err != nil {
				return err
			}
			switch {
			case applied:
				res.Outcome = domain.OutcomeApplied
			case current == mapped:
				res.Outcome = domain.OutcomeUnchanged
			default:
				res.Outcome = domain.OutcomeIgnoredRegression
			}
		}
		audit.Outcome = res.Outcome
		return repo.CreateNotification(ctx, g, audit)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "apply")
		return nil, fmt.Errorf("apply notification: %w", err)
	}
	webhookNotifications.WithLabelValues(string(res.Outcome)).Inc()
	span.SetAttributes(attribute.String("outcome", string(res.Outcome)))

	lg := log.With().
		Str("order_ref", tx.OrderRef).
		Str("transaction_id", tx.ID).
		Str("transaction_status", n.TransactionStatus).
		Str("fraud_status", n.FraudStatus).
		Str("outcome", string(res.Outcome)).
		Logger()
	switch res.Outcome {
	case domain.OutcomeUnmapped:
		lg.Warn().Msg("unmapped gateway status ignored")
		return res, nil
	case domain.OutcomeAmountMismatch:
		lg.Warn().Str("gross_amount", n.GrossAmount).Str("total", tx.Total.String()).Msg("paid notification amount mismatch")
		return res, nil
	case domain.OutcomeIgnoredRegression:
		lg.Info().Str("mapped", mapped.String()).Msg("status regression ignored")
		return res, nil
	}

	if payment.Grants(mapped) {
		grant, err := s.Granter.Grant(ctx, tx.CustomerID, tx.ID, tx.LineItems)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "grant")
			lg.Error().Err(err).Msg("entitlement grant failed")
			return nil, err
		}
		res.Grant = grant
	}
	return res, nil
}

// transition applies target with a compare-and-swap. When the swap does not
// apply, current is the status re-read after the attempt.
func (s *PaymentService) transition(ctx context.Context, db *gorm.DB, tx *domain.Transaction, target domain.TransactionStatus, payload datatypes.JSON) (applied bool, current domain.TransactionStatus, err error) {
	if tx.Status == target {
		return false, target, nil
	}
	applied, err = repo.TransitionStatus(ctx, db, tx.ID, repo.StatusChange{
		Target:  target,
		Payload: payload,
		At:      s.now(),
	})
	if err != nil {
		return false, "", fmt.Errorf("update status: %w", err)
	}
	if applied {
		return true, target, nil
	}
	current, err = repo.GetTransactionStatus(ctx, db, tx.ID)
	if err != nil {
		return false, "", fmt.Errorf("reload status: %w", err)
	}
	return false, current, nil
}

func amountMatches(n payment.Notification, total decimal.Decimal) bool {
	amt, err := n.Amount()
	return err == nil && amt.Equal(total)
}
