package api

import (
	"net/http"
	"time"

	"github.com/erazemk/shramba/internal/analytics"
)

// StatsHandler serves the waste and usage statistics.
type StatsHandler struct {
	Analytics *analytics.Engine
	Clock     func() time.Time
}

// now returns the ?now= reference instant, or the current time.
func (h *StatsHandler) now(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("now")
	if raw == "" {
		return h.Clock().UTC(), true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// Weekly handles GET /api/stats/weekly.
func (h *StatsHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	now, ok := h.now(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "now must be an RFC 3339 timestamp")
		return
	}
	counts, err := h.Analytics.WeeklyStatusCounts(r.Context(), CurrentUser(r.Context()).UserID, now)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, counts)
}

// CategoryBreakdown handles GET /api/stats/category-breakdown.
func (h *StatsHandler) CategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.Analytics.CategoryBreakdown(r.Context(), CurrentUser(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, breakdown)
}

// DailyTrend handles GET /api/stats/daily-trend.
func (h *StatsHandler) DailyTrend(w http.ResponseWriter, r *http.Request) {
	now, ok := h.now(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "now must be an RFC 3339 timestamp")
		return
	}
	trend, err := h.Analytics.DailyTrend(r.Context(), CurrentUser(r.Context()).UserID, now)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, trend)
}

// Details handles GET /api/stats/details.
func (h *StatsHandler) Details(w http.ResponseWriter, r *http.Request) {
	now, ok := h.now(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "now must be an RFC 3339 timestamp")
		return
	}
	summary, err := h.Analytics.SummaryStats(r.Context(), CurrentUser(r.Context()).UserID, now)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}
