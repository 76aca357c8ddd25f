package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vleukhin/workmart/internal/config"
	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/pkg/clients"
)

type PayoutStatus string

const (
	StatusSucceeded PayoutStatus = "success"
	StatusFailed    PayoutStatus = "failed"
	StatusPending   PayoutStatus = "pending"
)

// ErrUnavailable marks an ambiguous gateway call: timeout, transport failure
// or 5xx. The payout may or may not have gone through; the transaction must
// stay pending until reconciliation resolves it.
var ErrUnavailable = errors.New("settlement gateway unavailable")

// PayoutResult is the gateway's definitive answer about one payout.
type PayoutResult struct {
	Status               PayoutStatus
	GatewayTransactionID string
	FailureReason        string
	Raw                  []byte
}

type payoutRequest struct {
	Reference     string `json:"reference"`
	Amount        int64  `json:"amount"`
	AccountHolder string `json:"account_holder"`
	CardNumber    string `json:"card_number"`
	BankCode      string `json:"bank_code"`
}

type payoutResponse struct {
	Reference            string `json:"reference"`
	Status               string `json:"status"`
	GatewayTransactionID string `json:"gateway_transaction_id"`
	FailureReason        string `json:"failure_reason"`
}

type Client struct {
	url        string
	apiKey     string
	webhookKey []byte
	feePercent int64
	client     clients.HTTPClientI
}

func New(cfg *config.Config, client clients.HTTPClientI) *Client {
	return &Client{
		url:        cfg.GatewayAddress,
		apiKey:     cfg.GatewayAPIKey,
		webhookKey: []byte(cfg.GatewayWebhookKey),
		feePercent: cfg.FeePercent,
		client:     client,
	}
}

// CalculatePlatformFee rounds amount*feePercent/100 to the nearest minor
// unit, half up. The worker receives amount minus this fee.
func (c *Client) CalculatePlatformFee(amount domain.Money) domain.Money {
	return (amount*c.feePercent + 50) / 100
}

// GenerateReference returns a unique payout reference. It is persisted before
// any gateway call and reused on every retry, so the gateway never sees two
// references for one draw.
func (c *Client) GenerateReference(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// CreatePayout submits a payout and interprets the synchronous answer. A 2xx
// is success, a 4xx is a definitive decline, everything else is ambiguous and
// reported as ErrUnavailable.
func (c *Client) CreatePayout(ctx context.Context, reference string, amount domain.Money, b *domain.Beneficiary) (*PayoutResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	body, err := json.Marshal(payoutRequest{
		Reference:     reference,
		Amount:        amount,
		AccountHolder: b.AccountHolder,
		CardNumber:    b.CardNumber,
		BankCode:      b.BankCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payout request: %w", err)
	}

	statusCode, respBody, err := c.client.Post(c.url+"/api/payouts", body, c.authHeaders())
	if err != nil {
		zap.L().Warn("payout call failed", zap.String("reference", reference), zap.Error(err))
		return nil, ErrUnavailable
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		return c.parseResult(reference, respBody, StatusSucceeded)
	case statusCode >= 400 && statusCode < 500:
		return c.parseResult(reference, respBody, StatusFailed)
	default:
		zap.L().Warn("ambiguous payout response", zap.String("reference", reference), zap.Int("status", statusCode))
		return nil, ErrUnavailable
	}
}

// CheckPayout asks the gateway for the current state of a payout. Used by the
// reconciliation poller for transactions stuck in pending.
func (c *Client) CheckPayout(ctx context.Context, reference string) (*PayoutResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	statusCode, respBody, _, err := c.client.Get(c.url+"/api/payouts/"+reference, c.authHeaders())
	if err != nil {
		return nil, ErrUnavailable
	}

	switch statusCode {
	case http.StatusOK:
		return c.parseResult(reference, respBody, StatusPending)
	case http.StatusNotFound:
		// Gateway never saw this reference: the create call did not land.
		return &PayoutResult{Status: StatusFailed, FailureReason: "payout unknown to gateway", Raw: respBody}, nil
	default:
		return nil, ErrUnavailable
	}
}

// VerifySignature checks the webhook HMAC-SHA256 over timestamp + "." + body.
func (c *Client) VerifySignature(body []byte, signature, timestamp string) bool {
	mac := hmac.New(sha256.New, c.webhookKey)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) parseResult(reference string, respBody []byte, fallback PayoutStatus) (*PayoutResult, error) {
	var resp payoutResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		zap.L().Warn("unparseable gateway response", zap.String("reference", reference), zap.Error(err))
		return &PayoutResult{Status: fallback, Raw: respBody}, nil
	}
	if resp.Reference != "" && resp.Reference != reference {
		return nil, fmt.Errorf("gateway reference mismatch: expected %s, got %s", reference, resp.Reference)
	}

	status := fallback
	switch resp.Status {
	case "success", "processed":
		status = StatusSucceeded
	case "failed", "declined":
		status = StatusFailed
	case "pending", "processing":
		status = StatusPending
	}

	return &PayoutResult{
		Status:               status,
		GatewayTransactionID: resp.GatewayTransactionID,
		FailureReason:        resp.FailureReason,
		Raw:                  respBody,
	}, nil
}

func (c *Client) authHeaders() http.Header {
	headers := http.Header{}
	if c.apiKey != "" {
		headers.Set("Authorization", "Bearer "+c.apiKey)
	}
	return headers
}
