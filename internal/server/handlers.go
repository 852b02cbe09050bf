package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"MomentumCheck/internal/model"
)

type momentumResponse struct {
	Data     momentumData `json:"data"`
	Metadata metadata     `json:"metadata"`
}

type momentumData struct {
	RequestedSymbol string               `json:"requested_symbol"`
	Identifier      string               `json:"identifier"`
	Field           model.PriceField     `json:"field"`
	RequestID       string               `json:"request_id"`
	MonthEnd        string               `json:"month_end"`
	Momentum        model.MomentumResult `json:"momentum"`
	Positive        bool                 `json:"positive"`
	Display         displayData          `json:"display"`
}

type displayData struct {
	Low    float64             `json:"low"`
	High   float64             `json:"high"`
	Points []model.Observation `json:"points"`
}

type metadata struct {
	Timestamp string `json:"timestamp"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMomentum(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(chi.URLParam(r, "symbol"))
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "bad_request", "symbol is required")
		return
	}

	a, err := s.collector.Collect(r.Context(), symbol)
	if err != nil {
		kind := model.ErrorKind(err)
		s.log.Warn().Err(err).Str("symbol", symbol).Str("kind", kind).Msg("momentum request failed")
		s.writeError(w, statusForKind(kind), kind, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, momentumResponse{
		Data: momentumData{
			RequestedSymbol: a.RequestedSymbol,
			Identifier:      a.Identifier,
			Field:           a.Field,
			RequestID:       a.RequestID,
			MonthEnd:        a.MonthEnd.Format("2006-01-02"),
			Momentum:        a.Result,
			Positive:        a.Result.Positive(),
			Display: displayData{
				Low:    a.DisplayLow,
				High:   a.DisplayHigh,
				Points: a.Display,
			},
		},
		Metadata: metadata{Timestamp: s.now().UTC().Format(time.RFC3339)},
	})
}

func statusForKind(kind string) int {
	switch kind {
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindInsufficientData:
		return http.StatusUnprocessableEntity
	case model.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, message string) {
	s.writeJSON(w, status, map[string]errorBody{
		"error": {Kind: kind, Message: message},
	})
}
