// Package http exposes the calculator registry over JSON/HTTP.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/clinical-scores/internal/api/respond"
	"github.com/mind-engage/clinical-scores/pkg/score"
)

// MaxBodyBytes caps calculator request bodies.
const MaxBodyBytes = 1 << 20

type scoreList struct {
	Scores []score.Info `json:"scores"`
	Total  int          `json:"total"`
}

// GET /api/scores?category=&search=
func ListScoresHandler(reg *score.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list := reg.Filter(q.Get("category"), q.Get("search"))
		respond.JSON(w, http.StatusOK, scoreList{Scores: list, Total: len(list)})
	}
}

// GET /api/scores/{score_id}
func GetScoreHandler(reg *score.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "score_id")
		c, ok := reg.Lookup(id)
		if !ok {
			respond.Error(w, http.StatusNotFound, respond.KindNotFound, "score "+id+" not found",
				map[string]any{"score_id": id})
			return
		}
		respond.JSON(w, http.StatusOK, c.Metadata())
	}
}

// GET /api/scores/{score_id}/validate
func ValidateScoreHandler(reg *score.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "score_id")
		_, ok := reg.Lookup(id)
		status := "not_found"
		if ok {
			status = "ready"
		}
		respond.JSON(w, http.StatusOK, map[string]any{
			"score_id":             id,
			"score_exists":         ok,
			"calculator_available": ok,
			"status":               status,
		})
	}
}

// GET /api/categories
func CategoriesHandler(reg *score.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats := reg.Categories()
		if cats == nil {
			cats = []string{}
		}
		respond.JSON(w, http.StatusOK, map[string]any{"categories": cats, "total": len(cats)})
	}
}

// CalculateHandler serves POST /api/{score_id}/calculate. When id is not
// empty the route parameter is ignored and the handler serves POST /{id}.
func CalculateHandler(reg *score.Registry, log logrus.FieldLogger, id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scoreID := id
		if scoreID == "" {
			scoreID = chi.URLParam(r, "score_id")
		}
		body, err := readBody(w, r)
		if err != nil {
			writeError(w, r, log, scoreID, err)
			return
		}
		res, err := reg.Invoke(r.Context(), scoreID, body)
		if err != nil {
			writeError(w, r, log, scoreID, err)
			return
		}
		respond.JSON(w, http.StatusOK, res)
	}
}

// GET /
func BannerHandler(reg *score.Registry, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]any{
			"service":     "clinical-scores",
			"version":     version,
			"calculators": reg.Len(),
			"catalog":     "/api/scores",
		})
	}
}

func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	defer r.Body.Close()
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, &score.ValidationError{
				Field:      "body",
				Constraint: "size",
				Message:    "request body exceeds 1 MiB",
			}
		}
		return nil, &score.ValidationError{Field: "body", Constraint: "read", Message: err.Error()}
	}
	return b, nil
}
