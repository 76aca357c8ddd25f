package dto

type LedgerResponseDTO struct {
	JobID           int   `json:"job_id" example:"42"`
	TotalBudget     int64 `json:"total_budget" example:"1000000"`
	AmountPaid      int64 `json:"amount_paid" example:"400000"`
	AmountPending   int64 `json:"amount_pending" example:"0"`
	RemainingBudget int64 `json:"remaining_budget" example:"600000"`
}
