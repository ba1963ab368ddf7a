package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/antinvestor/mpesa-api/service/business"
	"github.com/antinvestor/mpesa-api/service/coreapi"
	"github.com/antinvestor/mpesa-api/service/events"
	"github.com/antinvestor/mpesa-api/service/models"
	"github.com/antinvestor/mpesa-api/service/repository"
	"github.com/antinvestor/mpesa-api/service/validation"
	"github.com/gorilla/mux"
	"github.com/pitabwire/frame"
	"gorm.io/gorm"
)

// Emitter queues an event for asynchronous handling. *frame.Service satisfies it.
type Emitter interface {
	Emit(ctx context.Context, name string, payload any) error
}

type C2BServer struct {
	Service *frame.Service
	// Emitter defaults to Service when nil.
	Emitter    Emitter
	Business   business.C2BBusiness
	Validator  validation.Validator
	Repository repository.ConfirmationRepository

	ConfirmationURL string
}

var (
	acceptedResponse = map[string]string{"ResultCode": "0", "ResultDesc": "Accepted"}
	rejectedResponse = map[string]string{"ResultCode": "C2B00016", "ResultDesc": "Rejected"}
)

func (cs *C2BServer) emitter() Emitter {
	if cs.Emitter != nil {
		return cs.Emitter
	}
	return cs.Service
}

func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

func decodePayload(r *http.Request) (models.ConfirmationPayload, error) {
	var payload models.ConfirmationPayload
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("empty confirmation body")
	}
	return payload, nil
}

// HandleConfirmation acknowledges a Safaricom C2B confirmation and queues it for forwarding.
func (cs *C2BServer) HandleConfirmation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := cs.Service.Log(ctx).WithField("type", "ConfirmationHandler")

	payload, err := decodePayload(r)
	if err != nil {
		logger.WithError(err).Error("failed to decode confirmation request")
		_ = writeJSON(w, http.StatusBadRequest, rejectedResponse)
		return
	}

	logger = logger.WithField("trans_id", payload.String("TransID"))

	if err = cs.Validator.Validate(payload, models.ConfirmationSchema); err != nil {
		logger.WithError(err).Warn("rejecting invalid confirmation")
		_ = writeJSON(w, http.StatusBadRequest, rejectedResponse)
		return
	}

	if err = cs.emitter().Emit(ctx, events.C2BConfirmEventName, &payload); err != nil {
		logger.WithError(err).Error("failed to emit confirmation event")
		http.Error(w, "Failed to process confirmation", http.StatusInternalServerError)
		return
	}

	logger.Info("confirmation accepted")
	if err = writeJSON(w, http.StatusOK, acceptedResponse); err != nil {
		logger.WithError(err).Error("failed to encode success response")
	}
}

// ForwardConfirmation forwards the confirmation within the request and returns the downstream response.
func (cs *C2BServer) ForwardConfirmation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := cs.Service.Log(ctx).WithField("type", "ForwardHandler")

	payload, err := decodePayload(r)
	if err != nil {
		logger.WithError(err).Error("failed to decode confirmation request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := cs.Business.Confirm(ctx, payload, cs.ConfirmationURL)
	if err != nil {
		status := forwardErrorStatus(err)
		logger.WithError(err).WithField("status", status).Warn("could not forward confirmation")
		http.Error(w, forwardErrorMessage(status), status)
		return
	}

	if err = writeJSON(w, http.StatusOK, response); err != nil {
		logger.WithError(err).Error("failed to encode forward response")
	}
}

func forwardErrorStatus(err error) int {
	var validationErr *validation.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	var transportErr *coreapi.TransportError
	if errors.As(err, &transportErr) && transportErr.HasStatus() {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

func forwardErrorMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid confirmation"
	case http.StatusBadGateway:
		return "Confirmation destination rejected the request"
	default:
		return "Failed to forward confirmation"
	}
}

// GetConfirmation returns the latest audit record stored for a transaction id.
func (cs *C2BServer) GetConfirmation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	transID := mux.Vars(r)["transID"]
	logger := cs.Service.Log(ctx).WithField("type", "ConfirmationLookup").WithField("trans_id", transID)

	record, err := cs.Repository.GetByTransID(ctx, transID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Confirmation not found", http.StatusNotFound)
			return
		}
		logger.WithError(err).Error("failed to load confirmation")
		http.Error(w, "Failed to load confirmation", http.StatusInternalServerError)
		return
	}

	if err = writeJSON(w, http.StatusOK, record); err != nil {
		logger.WithError(err).Error("failed to encode confirmation")
	}
}
