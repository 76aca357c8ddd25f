package domain

import "time"

// Money is an exact amount in minor currency units. Ledger arithmetic is
// integer-only to avoid rounding drift.
type Money = int64

type Role string

const (
	RoleClient Role = "client"
	RoleWorker Role = "worker"
)

// Job statuses reported by the job-lifecycle service.
const (
	JobStatusInProgress string = "in_progress"
	JobStatusCompleted  string = "completed"
)

// PaymentRequest statuses. pending -> {approved, declined};
// approved -> {processed, failed}. declined, processed and failed are terminal.
const (
	RequestStatusPending   string = "pending"
	RequestStatusApproved  string = "approved"
	RequestStatusDeclined  string = "declined"
	RequestStatusProcessed string = "processed"
	RequestStatusFailed    string = "failed"
)

// Transaction statuses. pending is the only non-terminal one.
const (
	TransactionStatusPending  string = "pending"
	TransactionStatusSuccess  string = "success"
	TransactionStatusFailed   string = "failed"
	TransactionStatusRefunded string = "refunded"
)

// BudgetLedger tracks how a job's fixed budget splits into paid, pending and
// remaining parts. TotalBudget == AmountPaid + AmountPending + RemainingBudget
// must hold after every mutation.
type BudgetLedger struct {
	ID              int       `db:"id"`
	JobID           int       `db:"job_id"`
	TotalBudget     Money     `db:"total_budget"`
	AmountPaid      Money     `db:"amount_paid"`
	AmountPending   Money     `db:"amount_pending"`
	RemainingBudget Money     `db:"remaining_budget"`
	Frozen          bool      `db:"frozen"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// Conserved reports whether the conservation invariant holds.
func (l *BudgetLedger) Conserved() bool {
	if l.AmountPaid < 0 || l.AmountPending < 0 || l.RemainingBudget < 0 {
		return false
	}
	return l.TotalBudget == l.AmountPaid+l.AmountPending+l.RemainingBudget
}

// PaymentRequest is a worker's draw against a job's budget. Rows are never
// deleted; they form the audit trail.
type PaymentRequest struct {
	ID            int        `db:"id"`
	JobID         int        `db:"job_id"`
	WorkerID      int        `db:"worker_id"`
	ClientID      int        `db:"client_id"`
	Amount        Money      `db:"amount"`
	Description   string     `db:"description"`
	Status        string     `db:"status"`
	DeclineReason string     `db:"decline_reason"`
	RequestedAt   time.Time  `db:"requested_at"`
	RespondedAt   *time.Time `db:"responded_at"`
	ProcessedAt   *time.Time `db:"processed_at"`
}

func (p *PaymentRequest) Resolved() bool {
	return p.Status != RequestStatusPending
}

// Transaction records one settlement attempt. At most one exists per
// PaymentRequest; only Status changes after creation.
type Transaction struct {
	ID               int       `db:"id"`
	PaymentRequestID int       `db:"payment_request_id"`
	JobID            int       `db:"job_id"`
	WorkerID         int       `db:"worker_id"`
	ClientID         int       `db:"client_id"`
	Amount           Money     `db:"amount"`
	PlatformFee      Money     `db:"platform_fee"`
	WorkerAmount     Money     `db:"worker_amount"`
	GatewayReference string    `db:"gateway_reference"`
	Status           string    `db:"status"`
	GatewayPayload   []byte    `db:"gateway_payload"`
	CreatedAt        time.Time `db:"created_at"`
}

func (t *Transaction) Terminal() bool {
	return t.Status != TransactionStatusPending
}

// Job is the snapshot read from the job-lifecycle service at request time.
type Job struct {
	ID       int    `json:"id"`
	ClientID int    `json:"client_id"`
	WorkerID int    `json:"worker_id"`
	Status   string `json:"status"`
	Budget   Money  `json:"budget"`
}

// Eligible reports whether draws may be created against the job.
func (j *Job) Eligible() bool {
	return j.Status == JobStatusInProgress || j.Status == JobStatusCompleted
}

// Beneficiary holds a worker's payout destination.
type Beneficiary struct {
	WorkerID      int    `json:"worker_id"`
	AccountHolder string `json:"account_holder"`
	CardNumber    string `json:"card_number"`
	BankCode      string `json:"bank_code"`
}
