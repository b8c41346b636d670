// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on the human-readable message. Generic codes mirror HTTP status
// semantics, domain codes name the fulfillment step that failed.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "shipments_exist",
//	  "message": "shipments already exist for transaction"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInvalidShipping  = "invalid_shipping_choice"
	ErrCodeMissingShipping  = "missing_shipping_choice"
	ErrCodeInvalidRecipient = "invalid_recipient"
	ErrCodeNotPaid          = "transaction_not_paid"
	ErrCodeShipmentsExist   = "shipments_exist"
	ErrCodeInvalidStatus    = "invalid_status"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeLookupFailed     = "lookup_failed"
)
