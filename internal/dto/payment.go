package dto

import "time"

type CreatePaymentRequestDTO struct {
	Amount      int64  `json:"amount" example:"400000"`
	Description string `json:"description" example:"milestone 1: backend scaffolding"`
}

type RespondPaymentRequestDTO struct {
	Action        string `json:"action" example:"approve"`
	DeclineReason string `json:"decline_reason,omitempty" example:"amount too high"`
}

type PaymentRequestResponseDTO struct {
	ID            int        `json:"id" example:"17"`
	JobID         int        `json:"job_id" example:"42"`
	WorkerID      int        `json:"worker_id" example:"7"`
	ClientID      int        `json:"client_id" example:"3"`
	Amount        int64      `json:"amount" example:"400000"`
	Description   string     `json:"description" example:"milestone 1"`
	Status        string     `json:"status" example:"pending"`
	DeclineReason string     `json:"decline_reason,omitempty" example:"amount too high"`
	RequestedAt   time.Time  `json:"requested_at"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}
