package dto

// WebhookEventDTO is the settlement gateway's callback payload.
type WebhookEventDTO struct {
	Reference            string `json:"reference" example:"PAYOUT-9f4b2c1a"`
	Status               string `json:"status" example:"success"`
	GatewayTransactionID string `json:"gateway_transaction_id,omitempty" example:"gw_tx_8812"`
	FailureReason        string `json:"failure_reason,omitempty" example:"beneficiary account closed"`
}
