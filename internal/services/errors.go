// Package services defines the business logic of the fulfillment pipeline:
// payment confirmation, entitlement granting, and shipment splitting and
// queries. This file centralizes service-level error values so that they can
// be consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Lookup errors. Both are also returned when the record exists but the
// caller may not see it, so existence never leaks.
var (
	// ErrTransactionNotFound indicates an unknown order reference or id.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrShipmentNotFound indicates an unknown or inaccessible shipment.
	ErrShipmentNotFound = errors.New("shipment not found")
)

// Payment errors.
var (
	// ErrInvalidSignature is returned when a gateway notification fails
	// authenticity verification. Nothing is written in that case.
	ErrInvalidSignature = errors.New("invalid notification signature")

	// ErrInvalidPayload is returned for notification bodies that cannot be
	// decoded or lack required fields.
	ErrInvalidPayload = errors.New("invalid notification payload")

	// ErrInvalidStatus is returned by direct confirmation for any status
	// other than the one the mapping accepts.
	ErrInvalidStatus = errors.New("invalid payment status")

	// ErrInvalidTransition is returned when the order is in a terminal status
	// that cannot move to the requested one (for example expired -> paid).
	ErrInvalidTransition = errors.New("status transition not allowed")

	// ErrAmountMismatch is returned when a reported gross amount differs from
	// the order total.
	ErrAmountMismatch = errors.New("gross amount does not match order total")
)

// Shipment errors.
var (
	// ErrMissingShippingChoice is returned when a seller with physical items
	// has no shipping choice. No shipment is created.
	ErrMissingShippingChoice = errors.New("missing shipping choice")

	// ErrInvalidShippingChoice is returned for malformed or duplicated
	// shipping choices.
	ErrInvalidShippingChoice = errors.New("invalid shipping choice")

	// ErrInvalidRecipient is returned when the recipient address is incomplete.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrTransactionNotPaid is returned when shipments are requested for an
	// order that is not paid.
	ErrTransactionNotPaid = errors.New("transaction is not paid")

	// ErrShipmentsExist is returned when shipments were already created for
	// the order.
	ErrShipmentsExist = errors.New("shipments already exist for transaction")

	// ErrInvalidShipmentStatus is returned for an unknown list status filter.
	ErrInvalidShipmentStatus = errors.New("invalid shipment status")
)
