package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Softwarehamid/auto-shop-booking/internal/usecase"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty request body")
		}
		return err
	}
	return nil
}

// handleServiceError maps usecase errors onto HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.Any("errors", verr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)

	case errors.Is(err, usecase.ErrSlotAlreadyTaken):
		log.Info(operation+" failed - slot already taken")
		utils.ResponseConflict(w, "This time slot was just booked, please pick another time", "slot_already_taken")

	case errors.Is(err, usecase.ErrInvalidTransition):
		log.Warn(operation+" failed - invalid status transition", zap.Error(err))
		utils.ResponseConflict(w, "Booking can no longer be changed", "invalid_transition")

	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, "Not found")

	case errors.Is(err, usecase.ErrUnauthorized):
		utils.ResponseUnauthorized(w, "Invalid credentials")

	case errors.Is(err, usecase.ErrUnavailable):
		log.Error(operation+" failed - storage unavailable", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Service temporarily unavailable, please retry")

	default:
		log.Error(operation+" failed - internal error", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, usecase.ErrNotFound)
}
