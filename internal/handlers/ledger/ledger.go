package ledger

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/internal/dto"
	"github.com/vleukhin/workmart/internal/service/ledgerservice"
	"github.com/vleukhin/workmart/pkg/utils"
)

type Service interface {
	GetLedger(ctx context.Context, jobID int) (*domain.BudgetLedger, error)
}

type LedgerHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// GetLedger godoc
//
//	@Summary		Get a job's budget ledger snapshot
//	@Description	Total budget with its paid, pending and remaining parts. The ledger appears with the first payment request.
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Produce		json
//	@Param			jobID	path		int	true	"Job ID"
//	@Success		200		{object}	dto.LedgerResponseDTO	"Ledger snapshot"
//	@Failure		401		{object}	utils.Response			"Unauthorized"
//	@Failure		404		{object}	utils.Response			"No ledger for this job yet"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/jobs/{jobID}/ledger [get]
func (h *LedgerHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.Atoi(chi.URLParam(r, "jobID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	ledger, err := h.ledgerService.GetLedger(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, ledgerservice.ErrLedgerNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.LedgerResponseDTO{
		JobID:           ledger.JobID,
		TotalBudget:     ledger.TotalBudget,
		AmountPaid:      ledger.AmountPaid,
		AmountPending:   ledger.AmountPending,
		RemainingBudget: ledger.RemainingBudget,
	})
}
