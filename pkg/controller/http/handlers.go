package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
	"github.com/secmon-lab/pulse/pkg/usecase"
	"github.com/secmon-lab/pulse/pkg/utils/errutil"
	"github.com/secmon-lab/pulse/pkg/utils/safe"
)

// dateParam parses the optional date query parameter, defaulting to
// the current UTC date. A malformed value reports 400 and returns ok
// as false.
func dateParam(w http.ResponseWriter, r *http.Request) (types.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return types.Today(), true
	}

	date, err := types.ParseDate(raw)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return "", false
	}
	return date, true
}

func respondJSON(w http.ResponseWriter, r *http.Request, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, data)
}

func (s *Server) dailyCheckinsHandler(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Date     types.Date       `json:"date"`
		Checkins []*model.CheckIn `json:"checkins"`
	}

	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	checkins, err := s.uc.Query.DailyCheckins(r.Context(), date)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	if checkins == nil {
		checkins = []*model.CheckIn{}
	}

	respondJSON(w, r, &response{Date: date, Checkins: checkins})
}

func (s *Server) absenteesHandler(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Date      types.Date        `json:"date"`
		Absentees []*model.Absentee `json:"absentees"`
	}

	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	absentees, err := s.uc.Query.AbsenteesOn(r.Context(), date)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	if absentees == nil {
		absentees = []*model.Absentee{}
	}

	respondJSON(w, r, &response{Date: date, Absentees: absentees})
}

func (s *Server) checkinHandler(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	userID := types.UserID(r.URL.Query().Get("user_id"))
	if err := userID.Validate(); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	checkin, err := s.uc.Query.UserCheckin(r.Context(), userID, date)
	if err != nil {
		if errors.Is(err, usecase.ErrCheckinNotFound) {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, checkin)
}

func (s *Server) dailySummaryHandler(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	summary, err := s.uc.Query.DailySummary(r.Context(), date)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, summary)
}

func (s *Server) weeklySummaryHandler(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	summary, err := s.uc.Query.WeeklySummary(r.Context(), date)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, summary)
}

func (s *Server) monthlySummaryHandler(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	summary, err := s.uc.Query.MonthlySummary(r.Context(), date)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, summary)
}

// refreshHandler triggers an on-demand sync pass for the target date.
// Concurrent requests for the same date share one pass.
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	if err := s.uc.Sync.RefreshDay(r.Context(), date); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
