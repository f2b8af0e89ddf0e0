package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"sharkwatch/internal/model"
	"sharkwatch/internal/service"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"message": "sharkwatch stock API is running"})
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	payload, err := s.stocks.GetStock(r.Context(), symbol, queryDays(r))
	if err != nil {
		log.Warn().Str("symbol", symbol).Err(err).Msg("stock lookup failed")
		writeJSON(w, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, payload)
}

func (s *Server) handleForeign(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	rows, err := s.stocks.GetForeign(r.Context(), symbol)
	if err != nil {
		log.Warn().Str("symbol", symbol).Err(err).Msg("foreign lookup failed")
		writeJSON(w, []service.ForeignRow{})
		return
	}
	writeJSON(w, rows)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	bars, err := s.stocks.GetIndex(r.Context(), symbol)
	if err != nil {
		log.Warn().Str("symbol", symbol).Err(err).Msg("index lookup failed")
		writeJSON(w, []model.PriceBar{})
		return
	}
	writeJSON(w, bars)
}

func (s *Server) handleRealtime(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	quote, err := s.stocks.GetRealtime(r.Context(), symbol)
	if err != nil {
		log.Warn().Str("symbol", symbol).Err(err).Msg("realtime lookup failed")
		writeJSON(w, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, quote)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	items, err := s.news.Search(r.Context(), symbol)
	if err != nil {
		log.Warn().Str("symbol", symbol).Err(err).Msg("news lookup failed")
		writeJSON(w, []model.NewsItem{})
		return
	}
	writeJSON(w, items)
}

// queryDays reads the optional ?days override for the history window.
func queryDays(r *http.Request) int {
	v := r.URL.Query().Get("days")
	if v == "" {
		return 0
	}
	var days int
	for _, c := range v {
		if c < '0' || c > '9' {
			return 0
		}
		days = days*10 + int(c-'0')
	}
	return days
}

// writeJSON renders every response, success or degraded, as HTTP 200 JSON.
// An unreliable dependency must never surface as a 5xx to callers.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
