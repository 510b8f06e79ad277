package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/theirongolddev/adpulse/internal/config"
	"github.com/theirongolddev/adpulse/internal/forecast"
	"github.com/theirongolddev/adpulse/internal/logging"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/pipeline"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
)

// CountrySummary is served at /v1/countries/:country/summary.
type CountrySummary struct {
	Country string                `json:"country"`
	Name    string                `json:"name"`
	Metrics []model.MetricSummary `json:"metrics"`
}

// CountryForecast is served at /v1/countries/:country/forecast.
type CountryForecast struct {
	Country    string                  `json:"country"`
	Horizon    int                     `json:"horizon"`
	Historical []model.TimeSeriesPoint `json:"historical"`
	Projected  []model.ForecastPoint   `json:"projected"`
}

// CampaignList is served at /v1/campaigns.
type CampaignList struct {
	Campaigns []model.Campaign         `json:"campaigns"`
	Totals    pipeline.CampaignSummary `json:"totals"`
}

// BudgetReport is served at /v1/budget.
type BudgetReport struct {
	Lines  []model.BudgetLine     `json:"lines"`
	Totals pipeline.BudgetSummary `json:"totals"`
}

// ProductReport is served at /v1/products.
type ProductReport struct {
	Totals      pipeline.ProductSummary  `json:"totals"`
	Categories  []model.CategoryStats    `json:"categories"`
	Conversions []model.ConversionSample `json:"conversions"`
	Cart        model.CartStats          `json:"cart"`
	Products    []model.ProductStats     `json:"products"`
	Licenses    []model.LicenseStats     `json:"licenses"`
	Competitors []model.CompetitorStats  `json:"competitors"`
	Partners    []model.PartnerStats     `json:"partners"`
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Handler returns the daemon's routed and wrapped HTTP handler.
func (s *Service) Handler() http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/healthz", s.handleHealth)
	router.HandlerFunc(http.MethodGet, "/v1/status", s.handleStatus)
	router.HandlerFunc(http.MethodGet, "/v1/countries/:country/summary", s.handleSummary)
	router.HandlerFunc(http.MethodGet, "/v1/countries/:country/forecast", s.handleForecast)
	router.HandlerFunc(http.MethodGet, "/v1/campaigns", s.handleCampaigns)
	router.HandlerFunc(http.MethodGet, "/v1/budget", s.handleBudget)
	router.HandlerFunc(http.MethodGet, "/v1/products", s.handleProducts)
	router.HandlerFunc(http.MethodGet, "/v1/events", s.handleEvents)
	router.HandlerFunc(http.MethodGet, "/v1/stream", s.handleStream)
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found")
	})

	return alice.New(recoverer, requestLogger).Then(router)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleSummary(w http.ResponseWriter, r *http.Request) {
	cd, ok := s.countryFromPath(w, r)
	if !ok {
		return
	}
	metrics, err := forecast.Summarize(cd)
	if err != nil {
		writeModelError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountrySummary{
		Country: string(cd.ID),
		Name:    cd.ID.String(),
		Metrics: metrics,
	})
}

func (s *Service) handleForecast(w http.ResponseWriter, r *http.Request) {
	horizon := s.cfg.Horizon
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > config.MaxHorizon {
			writeError(w, r, http.StatusBadRequest,
				fmt.Sprintf("horizon must be between 0 and %d, got %q", config.MaxHorizon, raw))
			return
		}
		horizon = n
	}

	cd, ok := s.countryFromPath(w, r)
	if !ok {
		return
	}
	projected, err := forecast.Project(cd.Historical, horizon, s.cfg.Policy)
	if err != nil {
		writeModelError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountryForecast{
		Country:    string(cd.ID),
		Horizon:    horizon,
		Historical: cd.Historical,
		Projected:  projected,
	})
}

func (s *Service) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	platform, err := model.ParsePlatform(q.Get("platform"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	country, err := model.ParseCountry(q.Get("country"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	status, err := model.ParseStatus(q.Get("status"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ds := s.requireDataset(w, r)
	if ds == nil {
		return
	}
	campaigns := pipeline.FilterCampaigns(ds.Campaigns, pipeline.CampaignFilter{
		Platform: platform,
		Country:  country,
		Status:   status,
	})
	writeJSON(w, http.StatusOK, CampaignList{
		Campaigns: campaigns,
		Totals:    pipeline.CampaignTotals(campaigns),
	})
}

func (s *Service) handleBudget(w http.ResponseWriter, r *http.Request) {
	ds := s.requireDataset(w, r)
	if ds == nil {
		return
	}
	writeJSON(w, http.StatusOK, BudgetReport{
		Lines:  ds.Budget,
		Totals: pipeline.BudgetTotals(ds.Budget),
	})
}

func (s *Service) handleProducts(w http.ResponseWriter, r *http.Request) {
	ds := s.requireDataset(w, r)
	if ds == nil {
		return
	}
	writeJSON(w, http.StatusOK, ProductReport{
		Totals:      pipeline.ProductTotals(ds),
		Categories:  ds.Categories,
		Conversions: ds.Conversions,
		Cart:        ds.Cart,
		Products:    ds.Products,
		Licenses:    ds.Licenses,
		Competitors: ds.Competitors,
		Partners:    ds.Partners,
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	s.mu.RLock()
	if s.hasSnapshot {
		writeSSE(w, Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: time.Now(),
			Snapshot:  s.snapshot,
		})
	}
	s.mu.RUnlock()
	flusher.Flush()

	ctx := r.Context()
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		case <-heartbeat.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		}
	}
}

// requireDataset writes 503 and returns nil until the first successful poll.
func (s *Service) requireDataset(w http.ResponseWriter, r *http.Request) *model.Dataset {
	ds := s.dataset()
	if ds == nil {
		writeError(w, r, http.StatusServiceUnavailable, "dataset not loaded yet")
	}
	return ds
}

func (s *Service) countryFromPath(w http.ResponseWriter, r *http.Request) (model.CountryData, bool) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName("country")
	id, err := model.ParseCountry(raw)
	if err != nil || id == model.CountryAll {
		writeError(w, r, http.StatusNotFound, "unknown country "+strconv.Quote(raw))
		return model.CountryData{}, false
	}
	ds := s.requireDataset(w, r)
	if ds == nil {
		return model.CountryData{}, false
	}
	cd, ok := ds.Country(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "no data for "+id.String())
		return model.CountryData{}, false
	}
	return cd, true
}

func writeModelError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrPreconditionViolation), errors.Is(err, model.ErrInvalidRecord):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		logging.FromContext(r.Context(), "http").WithError(err).Error("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg, RequestID: logging.RequestID(r.Context())})
}

// writeJSON encodes v before any header is sent, so an encode failure still
// reaches the client as a 500.
func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logging.For("http").WithError(err).Error("encoding response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}
