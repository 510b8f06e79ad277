package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/theirongolddev/adpulse/internal/dataset"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/pipeline"

	"github.com/shopspring/decimal"
)

func builtinLoader() (*pipeline.LoadResult, error) {
	return pipeline.Load("")
}

func newTestService(t *testing.T, load LoadFunc) *Service {
	t.Helper()
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 10}).WithLoader(load)
	s.pollOnce()
	return s
}

func get(t *testing.T, s *Service, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Campaigns:       7,
		ActiveCampaigns: 3,
		Conversions:     20_900,
		BudgetAllocated: decimal.NewFromInt(850_000),
		BudgetSpent:     decimal.NewFromInt(665_000),
	}
	curr := Snapshot{
		Campaigns:       8,
		ActiveCampaigns: 4,
		Conversions:     21_400,
		BudgetAllocated: decimal.NewFromInt(900_000),
		BudgetSpent:     decimal.NewFromInt(665_000),
	}

	delta := diffSnapshots(prev, curr)
	if delta.Campaigns != 1 {
		t.Fatalf("Campaigns delta = %d, want 1", delta.Campaigns)
	}
	if delta.ActiveCampaigns != 1 {
		t.Fatalf("ActiveCampaigns delta = %d, want 1", delta.ActiveCampaigns)
	}
	if delta.Conversions != 500 {
		t.Fatalf("Conversions delta = %d, want 500", delta.Conversions)
	}
	if !delta.BudgetAllocated.Equal(decimal.NewFromInt(50_000)) {
		t.Fatalf("BudgetAllocated delta = %s, want 50000", delta.BudgetAllocated)
	}
	if !delta.BudgetSpent.IsZero() {
		t.Fatalf("BudgetSpent delta = %s, want 0", delta.BudgetSpent)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("self delta should be zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollPublishesOnRevisionChange(t *testing.T) {
	rev := "r1"
	s := newTestService(t, func() (*pipeline.LoadResult, error) {
		return &pipeline.LoadResult{Dataset: dataset.Builtin(), Source: "test", Revision: rev}, nil
	})

	s.pollOnce()
	rev = "r2"
	s.pollOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].Type != EventSnapshot || s.events[1].Type != EventDatasetChanged {
		t.Fatalf("event types = %s, %s", s.events[0].Type, s.events[1].Type)
	}
	if s.pollCount != 3 {
		t.Fatalf("pollCount = %d, want 3", s.pollCount)
	}
}

func TestPollFailureKeepsPreviousDataset(t *testing.T) {
	fail := false
	s := newTestService(t, func() (*pipeline.LoadResult, error) {
		if fail {
			return nil, errors.New("disk on fire")
		}
		return builtinLoader()
	})

	fail = true
	s.pollOnce()

	st := s.snapshotStatus()
	if st.LastError != "disk on fire" {
		t.Fatalf("LastError = %q", st.LastError)
	}
	if rec := get(t, s, "/v1/budget"); rec.Code != http.StatusOK {
		t.Fatalf("budget after failed poll: %d", rec.Code)
	}
}

func TestHealthAndStatus(t *testing.T) {
	s := newTestService(t, builtinLoader)

	if rec := get(t, s, "/healthz"); rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}

	rec := get(t, s, "/v1/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var st Status
	decodeBody(t, rec, &st)
	if st.Summary.Source != pipeline.SourceBuiltin || st.Summary.Countries != 3 || st.Summary.Campaigns != 7 {
		t.Fatalf("unexpected summary %+v", st.Summary)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}

func TestCountrySummary(t *testing.T) {
	s := newTestService(t, builtinLoader)

	rec := get(t, s, "/v1/countries/indonesia/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Country string `json:"country"`
		Metrics []struct {
			Metric string `json:"metric"`
			Trend  string `json:"trend"`
		} `json:"metrics"`
	}
	decodeBody(t, rec, &body)
	if body.Country != "indonesia" || len(body.Metrics) != len(model.AllMetrics) {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Metrics[2].Metric != "cpa" {
		t.Fatalf("third metric = %q, want cpa", body.Metrics[2].Metric)
	}
}

func TestCountryForecast(t *testing.T) {
	s := newTestService(t, builtinLoader)

	rec := get(t, s, "/v1/countries/thailand/forecast?horizon=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body %s", rec.Code, rec.Body.String())
	}
	var body CountryForecast
	decodeBody(t, rec, &body)
	if body.Horizon != 3 || len(body.Projected) != 3 {
		t.Fatalf("horizon %d, %d projected points", body.Horizon, len(body.Projected))
	}
	for _, p := range body.Projected {
		if !p.Projected {
			t.Fatal("projected point not tagged")
		}
	}

	rec = get(t, s, "/v1/countries/thailand/forecast")
	decodeBody(t, rec, &body)
	if len(body.Projected) != 6 {
		t.Fatalf("default horizon gave %d points, want 6", len(body.Projected))
	}

	rec = get(t, s, "/v1/countries/thailand/forecast?horizon=36")
	if rec.Code != http.StatusOK {
		t.Fatalf("horizon=36: code = %d", rec.Code)
	}
	decodeBody(t, rec, &body)
	if len(body.Projected) != 36 {
		t.Fatalf("horizon=36 gave %d points", len(body.Projected))
	}
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", rec.Code)
	}
	var body errorBody
	decodeBody(t, rec, &body)
	if body.Error == "" {
		t.Fatal("empty error body")
	}
}

func TestErrorStatusCodes(t *testing.T) {
	short := func() (*pipeline.LoadResult, error) {
		ds := dataset.Builtin()
		cd := ds.Countries[model.Malaysia]
		cd.Historical = cd.Historical[:1]
		ds.Countries[model.Malaysia] = cd
		return &pipeline.LoadResult{Dataset: ds, Source: "test", Revision: "short"}, nil
	}
	s := newTestService(t, short)

	cases := []struct {
		path string
		want int
	}{
		{"/v1/countries/atlantis/summary", http.StatusNotFound},
		{"/v1/countries/all/summary", http.StatusNotFound},
		{"/v1/countries/philippines/summary", http.StatusNotFound},
		{"/v1/countries/malaysia/summary", http.StatusUnprocessableEntity},
		{"/v1/countries/malaysia/forecast", http.StatusUnprocessableEntity},
		{"/v1/countries/indonesia/forecast?horizon=abc", http.StatusBadRequest},
		{"/v1/countries/indonesia/forecast?horizon=-1", http.StatusBadRequest},
		{"/v1/countries/indonesia/forecast?horizon=37", http.StatusBadRequest},
		{"/v1/countries/indonesia/forecast?horizon=200000", http.StatusBadRequest},
		{"/v1/campaigns?platform=amazon", http.StatusBadRequest},
		{"/v1/campaigns?status=archived", http.StatusBadRequest},
		{"/v1/nope", http.StatusNotFound},
	}
	for _, c := range cases {
		rec := get(t, s, c.path)
		if rec.Code != c.want {
			t.Fatalf("%s: code = %d, want %d (%s)", c.path, rec.Code, c.want, rec.Body.String())
		}
		var body errorBody
		decodeBody(t, rec, &body)
		if body.Error == "" || body.RequestID == "" {
			t.Fatalf("%s: incomplete error body %+v", c.path, body)
		}
	}
}

func TestNoDatasetYet(t *testing.T) {
	s := New(Config{}).WithLoader(func() (*pipeline.LoadResult, error) {
		return nil, errors.New("not yet")
	})
	s.pollOnce()

	if rec := get(t, s, "/v1/budget"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("budget code = %d, want 503", rec.Code)
	}
	if rec := get(t, s, "/v1/countries/indonesia/summary"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("summary code = %d, want 503", rec.Code)
	}
}

func TestCampaignsAndBudget(t *testing.T) {
	s := newTestService(t, builtinLoader)

	rec := get(t, s, "/v1/campaigns")
	var all CampaignList
	decodeBody(t, rec, &all)
	if len(all.Campaigns) != 7 || all.Totals.Count != 7 {
		t.Fatalf("campaigns = %d, totals count %d", len(all.Campaigns), all.Totals.Count)
	}

	rec = get(t, s, "/v1/campaigns?platform=shopee&status=all")
	var shopee CampaignList
	decodeBody(t, rec, &shopee)
	for _, c := range shopee.Campaigns {
		if c.Platform != model.PlatformShopee {
			t.Fatalf("filter leaked %s", c.Platform)
		}
	}
	if shopee.Totals.Count != len(shopee.Campaigns) {
		t.Fatalf("totals count %d for %d campaigns", shopee.Totals.Count, len(shopee.Campaigns))
	}

	rec = get(t, s, "/v1/budget")
	var budget BudgetReport
	decodeBody(t, rec, &budget)
	if !budget.Totals.Allocated.Equal(decimal.NewFromInt(850_000)) ||
		!budget.Totals.SpentPct.Equal(decimal.NewFromInt(78)) {
		t.Fatalf("budget totals %+v", budget.Totals)
	}
}

func TestProductsEndpoint(t *testing.T) {
	s := newTestService(t, builtinLoader)

	rec := get(t, s, "/v1/products")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var body ProductReport
	decodeBody(t, rec, &body)
	if len(body.Categories) != 4 || len(body.Partners) != 3 || len(body.Cart.Reasons) != 5 {
		t.Fatalf("unexpected tables %+v", body)
	}
	if !body.Totals.CategoryRevenue.Equal(decimal.NewFromInt(4_530_000)) || body.Totals.TopPartner != "Partner C" {
		t.Fatalf("totals %+v", body.Totals)
	}
	if len(body.Conversions) != 9 || body.Conversions[0].Period.IsZero() {
		t.Fatalf("conversions %+v", body.Conversions)
	}
}

func TestEventsEndpoint(t *testing.T) {
	s := newTestService(t, builtinLoader)

	rec := get(t, s, "/v1/events")
	var events []Event
	decodeBody(t, rec, &events)
	if len(events) != 1 || events[0].Type != EventSnapshot {
		t.Fatalf("events = %+v", events)
	}
}
