package domain

import (
	"fmt"
)

// ValidationError signals bad input the caller can fix and resubmit. The
// message is meant for direct display, suggestion included.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateReceiptError is reported when a receipt reference has already been
// used by another payment, possibly on a different financing. It is kept
// distinct from ValidationError so callers can surface "this voucher was
// already used" specifically.
type DuplicateReceiptError struct {
	ReceiptRef string
}

func (e *DuplicateReceiptError) Error() string {
	return fmt.Sprintf("receipt %q was already used by another payment, check the receipt number", e.ReceiptRef)
}

// InvalidStateError signals an operation not allowed in the financing's
// current lifecycle state, e.g. paying a completed financing.
type InvalidStateError struct {
	Op     string
	Status FinancingStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s not allowed while financing is %s", e.Op, e.Status)
}

// IOError wraps a persistence collaborator failure. Transient; retries are
// left to the caller.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// InvariantViolation means an internal consistency check failed. It should
// never occur; when it does we fail loudly instead of patching the value.
type InvariantViolation struct {
	Message string
}

func (e *InvariantViolation) Error() string { return "invariant violated: " + e.Message }

// PartialApplyError is returned when payment rows were created but the
// follow-up status update failed. Callers must be able to tell this apart
// from full success and full failure: the payments exist, the financing
// status on record is stale.
type PartialApplyError struct {
	FinancingID string
	Created     []*Payment
	Err         error
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("payments created for financing %s but status update failed: %v", e.FinancingID, e.Err)
}

func (e *PartialApplyError) Unwrap() error { return e.Err }
