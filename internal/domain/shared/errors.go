package shared

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrExternalService marks classifier failures: timeouts, non-success
// responses and undecodable payloads. Callers may retry the whole batch;
// nothing was mutated.
var ErrExternalService = errors.New("external classification service failure")

// ExternalServiceError wraps a classifier failure with the operation that
// produced it. It unwraps to both ErrExternalService and the underlying
// cause, so errors.Is matches the retryable marker as well as specifics
// like context.DeadlineExceeded.
type ExternalServiceError struct {
	Operation string
	Err       error
}

func (e ExternalServiceError) Error() string {
	return fmt.Sprintf("classifier %s failed: %v", e.Operation, e.Err)
}

func (e ExternalServiceError) Unwrap() []error { return []error{ErrExternalService, e.Err} }

// MalformedResultError indicates a single classifier result missing required
// fields. The affected transaction is skipped; the batch continues.
type MalformedResultError struct {
	TransactionID string
	Reason        string
}

func (e MalformedResultError) Error() string {
	return fmt.Sprintf("malformed classifier result for transaction %q: %s", e.TransactionID, e.Reason)
}

// OwnershipError indicates an operation on a resource belonging to another
// user. Rejected with no mutation.
type OwnershipError struct {
	Resource string
	ID       uuid.UUID
}

func (e OwnershipError) Error() string {
	return fmt.Sprintf("%s %s does not belong to the requesting user", e.Resource, e.ID.String())
}

// StateConflictError indicates an operation on a resource that is no longer
// in a state where the operation is legal, e.g. answering a question twice or
// confirming a non-pending reconciliation candidate. Rejected as a conflict,
// never retried automatically.
type StateConflictError struct {
	Resource string
	ID       uuid.UUID
	Status   string
}

func (e StateConflictError) Error() string {
	return fmt.Sprintf("%s %s is in state %q and cannot transition", e.Resource, e.ID.String(), e.Status)
}
