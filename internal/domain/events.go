package domain

import "time"

// Domain event names emitted on payment state transitions.
const (
	EventRequestCreated    string = "payment_request.created"
	EventRequestApproved   string = "payment_request.approved"
	EventRequestDeclined   string = "payment_request.declined"
	EventSettlementSuccess string = "settlement.succeeded"
	EventSettlementFailed  string = "settlement.failed"
)

// Event is a fire-and-forget notification about a state transition. Events
// are dispatched outside the transactional boundary; losing one never affects
// ledger correctness.
type Event struct {
	Name       string    `json:"name"`
	JobID      int       `json:"job_id"`
	RequestID  int       `json:"request_id"`
	WorkerID   int       `json:"worker_id"`
	ClientID   int       `json:"client_id"`
	Amount     Money     `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
