package collab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/vleukhin/workmart/internal/config"
	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/pkg/clients"
)

// ProfileClient fetches workers' payout details from the profile store at
// settlement time. A missing profile is reported as nil, not an error; the
// coordinator turns it into a failed settlement.
type ProfileClient struct {
	url    string
	client clients.HTTPClientI
}

func NewProfileClient(cfg *config.Config, client clients.HTTPClientI) *ProfileClient {
	return &ProfileClient{
		url:    cfg.ProfileAddress,
		client: client,
	}
}

func (c *ProfileClient) GetBeneficiary(ctx context.Context, workerID int) (*domain.Beneficiary, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	statusCode, respBody, _, err := c.client.Get(c.url+"/api/workers/"+strconv.Itoa(workerID)+"/payout-details", nil)
	if err != nil {
		zap.L().Error("profile service call failed", zap.Int("workerID", workerID), zap.Error(err))
		return nil, err
	}

	switch statusCode {
	case http.StatusOK:
		var beneficiary domain.Beneficiary
		if err := json.Unmarshal(respBody, &beneficiary); err != nil {
			return nil, fmt.Errorf("failed to parse beneficiary response: %w", err)
		}
		return &beneficiary, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected profile service status code: %d", statusCode)
	}
}
