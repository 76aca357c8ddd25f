package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/vleukhin/workmart/internal/config"
	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/pkg/clients"
)

func NewMock(t *testing.T) (*Client, *clients.MockHTTPClientI) {
	ctrl := gomock.NewController(t)
	httpClient := clients.NewMockHTTPClientI(ctrl)
	client := New(&config.Config{
		GatewayAddress:    "http://gateway",
		GatewayAPIKey:     "test-api-key",
		GatewayWebhookKey: "test-webhook-key",
		FeePercent:        5,
	}, httpClient)
	defer ctrl.Finish()
	return client, httpClient
}

func TestCalculatePlatformFee(t *testing.T) {
	client, _ := NewMock(t)
	tests := []struct {
		name     string
		amount   domain.Money
		expected domain.Money
	}{
		{name: "Whole fee", amount: 10000, expected: 500},
		{name: "Rounds half up", amount: 10, expected: 1},
		{name: "Rounds down below half", amount: 9, expected: 0},
		{name: "Smallest possible draw", amount: 1, expected: 0},
		{name: "Boundary just above half", amount: 11, expected: 1},
		{name: "Large amount stays exact", amount: 99999999, expected: 5000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, client.CalculatePlatformFee(tt.amount))
		})
	}
}

func TestGenerateReference(t *testing.T) {
	client, _ := NewMock(t)

	first := client.GenerateReference("PAYOUT")
	second := client.GenerateReference("PAYOUT")

	assert.True(t, strings.HasPrefix(first, "PAYOUT-"))
	assert.NotEqual(t, first, second)
}

func TestCreatePayout(t *testing.T) {
	client, httpClient := NewMock(t)
	beneficiary := &domain.Beneficiary{
		WorkerID:      20,
		AccountHolder: "J. Smith",
		CardNumber:    "4561261212345467",
		BankCode:      "TESTBANK",
	}
	tests := []struct {
		name           string
		prepareMock    func()
		expectedStatus PayoutStatus
		expectedError  error
	}{
		{
			name: "Accepted payout",
			prepareMock: func() {
				httpClient.EXPECT().Post("http://gateway/api/payouts", gomock.Any(), gomock.Any()).
					Return(http.StatusCreated, []byte(`{"reference":"PAYOUT-1","status":"success","gateway_transaction_id":"gtx-1"}`), nil)
			},
			expectedStatus: StatusSucceeded,
		},
		{
			name: "Declined payout",
			prepareMock: func() {
				httpClient.EXPECT().Post("http://gateway/api/payouts", gomock.Any(), gomock.Any()).
					Return(http.StatusUnprocessableEntity, []byte(`{"reference":"PAYOUT-1","status":"declined","failure_reason":"card blocked"}`), nil)
			},
			expectedStatus: StatusFailed,
		},
		{
			name: "Server error is ambiguous",
			prepareMock: func() {
				httpClient.EXPECT().Post("http://gateway/api/payouts", gomock.Any(), gomock.Any()).
					Return(http.StatusBadGateway, nil, nil)
			},
			expectedError: ErrUnavailable,
		},
		{
			name: "Transport failure is ambiguous",
			prepareMock: func() {
				httpClient.EXPECT().Post("http://gateway/api/payouts", gomock.Any(), gomock.Any()).
					Return(0, nil, errors.New("connection refused"))
			},
			expectedError: ErrUnavailable,
		},
		{
			name: "Reference mismatch is rejected",
			prepareMock: func() {
				httpClient.EXPECT().Post("http://gateway/api/payouts", gomock.Any(), gomock.Any()).
					Return(http.StatusOK, []byte(`{"reference":"PAYOUT-other","status":"success"}`), nil)
			},
			expectedError: errors.New("gateway reference mismatch: expected PAYOUT-1, got PAYOUT-other"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			result, err := client.CreatePayout(context.Background(), "PAYOUT-1", 9500, beneficiary)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, result.Status)
			}
		})
	}
}

func TestCheckPayout(t *testing.T) {
	client, httpClient := NewMock(t)
	tests := []struct {
		name           string
		prepareMock    func()
		expectedStatus PayoutStatus
		expectedError  error
	}{
		{
			name: "Settled payout",
			prepareMock: func() {
				httpClient.EXPECT().Get("http://gateway/api/payouts/PAYOUT-1", gomock.Any()).
					Return(http.StatusOK, []byte(`{"reference":"PAYOUT-1","status":"processed"}`), nil, nil)
			},
			expectedStatus: StatusSucceeded,
		},
		{
			name: "Still processing",
			prepareMock: func() {
				httpClient.EXPECT().Get("http://gateway/api/payouts/PAYOUT-1", gomock.Any()).
					Return(http.StatusOK, []byte(`{"reference":"PAYOUT-1","status":"processing"}`), nil, nil)
			},
			expectedStatus: StatusPending,
		},
		{
			name: "Unknown to the gateway means the create never landed",
			prepareMock: func() {
				httpClient.EXPECT().Get("http://gateway/api/payouts/PAYOUT-1", gomock.Any()).
					Return(http.StatusNotFound, nil, nil, nil)
			},
			expectedStatus: StatusFailed,
		},
		{
			name: "Server error is ambiguous",
			prepareMock: func() {
				httpClient.EXPECT().Get("http://gateway/api/payouts/PAYOUT-1", gomock.Any()).
					Return(http.StatusServiceUnavailable, nil, nil, nil)
			},
			expectedError: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			result, err := client.CheckPayout(context.Background(), "PAYOUT-1")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, result.Status)
			}
		})
	}
}

func TestVerifySignature(t *testing.T) {
	client, _ := NewMock(t)
	body := []byte(`{"reference":"PAYOUT-1","status":"success"}`)
	timestamp := "1725100000"

	mac := hmac.New(sha256.New, []byte("test-webhook-key"))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	tests := []struct {
		name      string
		body      []byte
		signature string
		timestamp string
		expected  bool
	}{
		{name: "Valid signature", body: body, signature: valid, timestamp: timestamp, expected: true},
		{name: "Tampered body", body: []byte(`{"reference":"PAYOUT-2"}`), signature: valid, timestamp: timestamp, expected: false},
		{name: "Wrong timestamp", body: body, signature: valid, timestamp: "1725100001", expected: false},
		{name: "Garbage signature", body: body, signature: "deadbeef", timestamp: timestamp, expected: false},
		{name: "Empty signature", body: body, signature: "", timestamp: timestamp, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, client.VerifySignature(tt.body, tt.signature, tt.timestamp))
		})
	}
}
