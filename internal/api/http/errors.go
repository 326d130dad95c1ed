package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/clinical-scores/internal/api/respond"
	"github.com/mind-engage/clinical-scores/pkg/score"
)

// writeError maps a registry or decoding error to the error envelope. Causes
// of server-side failures are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, logger logrus.FieldLogger, id string, err error) {
	log := logger.WithFields(logrus.Fields{
		"score_id":   id,
		"request_id": middleware.GetReqID(r.Context()),
	})

	var (
		ve *score.ValidationError
		ue *score.UnknownCalculatorError
		ce *score.CalculationError
		ie *score.InternalError
	)
	switch {
	case errors.As(err, &ve):
		details := map[string]any{"field": ve.Field, "constraint": ve.Constraint}
		if ve.Value != nil {
			details["value"] = ve.Value
		}
		log.WithFields(logrus.Fields{"field": ve.Field, "constraint": ve.Constraint}).Debug("validation failed")
		respond.Error(w, http.StatusUnprocessableEntity, respond.KindValidation, ve.Error(), details)

	case errors.As(err, &ue):
		respond.Error(w, http.StatusNotFound, respond.KindCalculation, ue.Error(), map[string]any{"score_id": ue.ID})

	case errors.As(err, &ce):
		log.WithError(ce.Err).Error("calculation failed")
		respond.Error(w, http.StatusInternalServerError, respond.KindCalculation,
			"calculation failed for "+ce.ID, map[string]any{"score_id": ce.ID})

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Warn("request abandoned")
		respond.Error(w, http.StatusServiceUnavailable, respond.KindInternal, "request cancelled", nil)

	default:
		incident := uuid.NewString()
		fields := logrus.Fields{"incident_id": incident}
		if errors.As(err, &ie) {
			fields["panic"] = ie.Cause
		}
		log.WithFields(fields).WithError(err).Error("internal error")
		respond.Error(w, http.StatusInternalServerError, respond.KindInternal,
			"an unexpected error occurred", map[string]any{"incident_id": incident})
	}
}
