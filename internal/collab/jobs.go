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

// JobClient reads job snapshots from the job-lifecycle service. The core
// never mutates jobs; it only needs status, participants and budget at
// request time.
type JobClient struct {
	url    string
	client clients.HTTPClientI
}

func NewJobClient(cfg *config.Config, client clients.HTTPClientI) *JobClient {
	return &JobClient{
		url:    cfg.JobServiceAddress,
		client: client,
	}
}

func (c *JobClient) GetJob(ctx context.Context, jobID int) (*domain.Job, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	statusCode, respBody, _, err := c.client.Get(c.url+"/api/jobs/"+strconv.Itoa(jobID), nil)
	if err != nil {
		zap.L().Error("job service call failed", zap.Int("jobID", jobID), zap.Error(err))
		return nil, err
	}

	switch statusCode {
	case http.StatusOK:
		var job domain.Job
		if err := json.Unmarshal(respBody, &job); err != nil {
			return nil, fmt.Errorf("failed to parse job response: %w", err)
		}
		return &job, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected job service status code: %d", statusCode)
	}
}
