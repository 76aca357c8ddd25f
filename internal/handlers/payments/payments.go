package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/internal/dto"
	"github.com/vleukhin/workmart/internal/service/ledgerservice"
	"github.com/vleukhin/workmart/internal/service/paymentservice"
	"github.com/vleukhin/workmart/internal/service/settlementservice"
	"github.com/vleukhin/workmart/pkg/auth"
	"github.com/vleukhin/workmart/pkg/utils"
)

type Service interface {
	CreateRequest(ctx context.Context, workerID, jobID int, amount domain.Money, description string) (*domain.PaymentRequest, error)
	Respond(ctx context.Context, clientID, requestID int, action, reason string) (*domain.PaymentRequest, error)
	ListRequests(ctx context.Context, actorID, jobID int) ([]domain.PaymentRequest, error)
}

type PaymentHandler struct {
	paymentService Service
}

func New(paymentService Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Create godoc
//
//	@Summary		Create a draw request against a job budget
//	@Description	The assigned worker requests a partial payment. The amount is reserved out of the remaining budget immediately.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			jobID	path		int							true	"Job ID"
//	@Param			request	body		dto.CreatePaymentRequestDTO	true	"Draw request payload"
//	@Success		201		{object}	dto.PaymentRequestResponseDTO	"Created payment request"
//	@Failure		400		{object}	utils.Response				"Invalid payload"
//	@Failure		401		{object}	utils.Response				"Unauthorized"
//	@Failure		402		{object}	utils.Response				"Insufficient remaining budget"
//	@Failure		403		{object}	utils.Response				"Caller is not the assigned worker"
//	@Failure		404		{object}	utils.Response				"Job not found"
//	@Failure		409		{object}	utils.Response				"Job not in an eligible state"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/jobs/{jobID}/payment-requests [post]
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	workerID := r.Context().Value(auth.UserIDKey).(int)
	if role, _ := r.Context().Value(auth.RoleKey).(string); role != string(domain.RoleWorker) {
		utils.RespondWithError(w, http.StatusForbidden, "worker role required")
		return
	}

	jobID, err := strconv.Atoi(chi.URLParam(r, "jobID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	var req dto.CreatePaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.paymentService.CreateRequest(r.Context(), workerID, jobID, req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, paymentservice.ErrInvalidAmount), errors.Is(err, paymentservice.ErrEmptyDescription):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, paymentservice.ErrJobNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, paymentservice.ErrNotJobWorker):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, paymentservice.ErrNotEligibleJobState), errors.Is(err, ledgerservice.ErrLedgerFrozen):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ledgerservice.ErrInsufficientBudget):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toResponseDTO(created))
}

// Respond godoc
//
//	@Summary		Approve or decline a payment request
//	@Description	The job client approves (triggering settlement) or declines (with a reason) a pending draw. An approval whose settlement is still confirming returns 202.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			requestID	path		int								true	"Payment request ID"
//	@Param			request		body		dto.RespondPaymentRequestDTO	true	"Response payload"
//	@Success		200			{object}	dto.PaymentRequestResponseDTO	"Resolved payment request"
//	@Success		202			{object}	dto.PaymentRequestResponseDTO	"Settlement pending confirmation"
//	@Failure		400			{object}	utils.Response					"Invalid payload"
//	@Failure		401			{object}	utils.Response					"Unauthorized"
//	@Failure		402			{object}	utils.Response					"Settlement failed"
//	@Failure		403			{object}	utils.Response					"Caller is not the job client"
//	@Failure		404			{object}	utils.Response					"Request not found"
//	@Failure		409			{object}	utils.Response					"Request already resolved"
//	@Failure		500			{object}	utils.Response					"Internal server error"
//	@Router			/api/payment-requests/{requestID}/respond [post]
func (h *PaymentHandler) Respond(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value(auth.UserIDKey).(int)
	if role, _ := r.Context().Value(auth.RoleKey).(string); role != string(domain.RoleClient) {
		utils.RespondWithError(w, http.StatusForbidden, "client role required")
		return
	}

	requestID, err := strconv.Atoi(chi.URLParam(r, "requestID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req dto.RespondPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.paymentService.Respond(r.Context(), clientID, requestID, req.Action, req.DeclineReason)
	if err != nil {
		switch {
		case errors.Is(err, settlementservice.ErrSettlementPending):
			// The draw is reserved and awaiting gateway confirmation.
			utils.RespondWithJSON(w, http.StatusAccepted, toResponseDTO(updated))
		case errors.Is(err, settlementservice.ErrSettlementFailed), errors.Is(err, settlementservice.ErrMissingBeneficiary):
			utils.RespondWithError(w, http.StatusPaymentRequired, "payment failed, contact support")
		case errors.Is(err, paymentservice.ErrReasonRequired), errors.Is(err, paymentservice.ErrInvalidAction):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, paymentservice.ErrRequestNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, paymentservice.ErrNotJobClient):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, paymentservice.ErrAlreadyResolved), errors.Is(err, paymentservice.ErrNotEligibleJobState):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponseDTO(updated))
}

// List godoc
//
//	@Summary		List a job's payment requests
//	@Description	Audit trail of all draws against a job, newest first. Available to the job's client and worker.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			jobID	path		int	true	"Job ID"
//	@Success		200		{array}		dto.PaymentRequestResponseDTO	"Payment requests"
//	@Success		204		{object}	utils.Response					"No payment requests"
//	@Failure		401		{object}	utils.Response					"Unauthorized"
//	@Failure		403		{object}	utils.Response					"Caller is not a job participant"
//	@Failure		404		{object}	utils.Response					"Job not found"
//	@Failure		500		{object}	utils.Response					"Internal server error"
//	@Router			/api/jobs/{jobID}/payment-requests [get]
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID := r.Context().Value(auth.UserIDKey).(int)

	jobID, err := strconv.Atoi(chi.URLParam(r, "jobID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	requests, err := h.paymentService.ListRequests(r.Context(), actorID, jobID)
	if err != nil {
		switch {
		case errors.Is(err, paymentservice.ErrJobNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, paymentservice.ErrNotJobParticipant):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch payment requests")
		}
		return
	}

	if len(requests) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No payment requests")
		return
	}

	response := make([]dto.PaymentRequestResponseDTO, len(requests))
	for i, req := range requests {
		req := req
		response[i] = toResponseDTO(&req)
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

func toResponseDTO(req *domain.PaymentRequest) dto.PaymentRequestResponseDTO {
	return dto.PaymentRequestResponseDTO{
		ID:            req.ID,
		JobID:         req.JobID,
		WorkerID:      req.WorkerID,
		ClientID:      req.ClientID,
		Amount:        req.Amount,
		Description:   req.Description,
		Status:        req.Status,
		DeclineReason: req.DeclineReason,
		RequestedAt:   req.RequestedAt,
		RespondedAt:   req.RespondedAt,
		ProcessedAt:   req.ProcessedAt,
	}
}
