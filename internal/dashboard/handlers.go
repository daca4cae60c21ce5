package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"dbimport/internal/logging"
	"dbimport/internal/storage"
)

// Update is the JSON body of GET /update.
type Update struct {
	Count  int64   `json:"count"`
	Latest []Tweet `json:"latest"`
}

// Tweet is one stored row as rendered to clients. 64-bit ids are strings so
// JavaScript clients do not round them.
type Tweet struct {
	ID               int64    `json:"id"`
	RecordID         string   `json:"record_id"`
	CreatedAt        string   `json:"created_at"`
	Text             string   `json:"text"`
	Lat              *float64 `json:"lat"`
	Lon              *float64 `json:"lon"`
	AuthorID         string   `json:"author_id"`
	AuthorHandle     string   `json:"author_handle"`
	AuthorName       string   `json:"author_name"`
	AuthorLocation   *string  `json:"author_location"`
	AuthorTimezone   *string  `json:"author_tz"`
	AuthorUTCOffset  *int32   `json:"author_utc_offset"`
	AuthorGeoEnabled bool     `json:"author_geo_enabled"`
	FollowersCount   *int32   `json:"author_followers_count"`
	FriendsCount     *int32   `json:"author_friends_count"`
	StatusesCount    *int32   `json:"author_statuses_count"`
	ResharedFromID   *string  `json:"reshared_from_id"`
}

func newUpdate(sum storage.Summary) Update {
	u := Update{Count: sum.Count, Latest: make([]Tweet, 0, len(sum.Latest))}
	for _, r := range sum.Latest {
		t := Tweet{
			ID:               r.ID,
			RecordID:         strconv.FormatUint(r.RecordID, 10),
			CreatedAt:        r.CreatedAt.UTC().Format(time.RFC3339),
			Text:             r.Text,
			Lat:              r.Lat,
			Lon:              r.Lon,
			AuthorID:         strconv.FormatUint(r.AuthorID, 10),
			AuthorHandle:     r.AuthorHandle,
			AuthorName:       r.AuthorName,
			AuthorLocation:   r.AuthorLocation,
			AuthorTimezone:   r.AuthorTimezone,
			AuthorUTCOffset:  r.AuthorUTCOffset,
			AuthorGeoEnabled: r.AuthorGeoEnabled,
			FollowersCount:   r.AuthorFollowersCount,
			FriendsCount:     r.AuthorFriendsCount,
			StatusesCount:    r.AuthorStatusesCount,
		}
		if r.ResharedFromID != nil {
			s := strconv.FormatUint(*r.ResharedFromID, 10)
			t.ResharedFromID = &s
		}
		u.Latest = append(u.Latest, t)
	}
	return u
}

// summary queries the store and records the query latency.
func (s *Server) summary(ctx context.Context) (Update, error) {
	start := time.Now()
	sum, err := s.src.Summary(ctx, s.cfg.RecentLimit)
	status := "success"
	if err != nil {
		status = "failure"
	}
	s.latency.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if err != nil {
		return Update{}, err
	}
	return newUpdate(sum), nil
}

// handleIndex renders the page with the initial data inlined.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	upd, err := s.summary(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	data := struct {
		Initial   Update
		UpdateURL string
		PollMS    int64
	}{
		Initial:   upd,
		UpdateURL: pathPrefix(r.Context()) + "/update",
		PollMS:    s.cfg.PollInterval.Milliseconds(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		logging.FromContext(r.Context(), s.logger).Error("template error", "err", err)
	}
}

// handleUpdate returns the count and latest records as JSON.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	upd, err := s.summary(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upd)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// respondError logs the store error with the request id and returns 503.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context(), s.logger).Error("summary failed",
		"path", r.URL.Path,
		"err", err,
	)
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store unavailable"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
