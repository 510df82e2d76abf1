package discovery

import (
	"context"
	"strings"
	"testing"

	"github.com/dishcovery-app/dishcovery-backend/pkg/config"
	pkgerrors "github.com/dishcovery-app/dishcovery-backend/pkg/errors"
	"github.com/dishcovery-app/dishcovery-backend/pkg/genai"
	"github.com/dishcovery-app/dishcovery-backend/pkg/logger"
	"github.com/dishcovery-app/dishcovery-backend/pkg/places"
)

type stubPlaces struct {
	results    []places.SearchResult
	searchErr  error
	details    map[string]*places.PlaceDetails
	detailErrs map[string]error
	calls      int
}

func (s *stubPlaces) SearchCafes(ctx context.Context, req places.SearchRequest) ([]places.SearchResult, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

func (s *stubPlaces) FetchDetails(ctx context.Context, placeID string) (*places.PlaceDetails, error) {
	s.calls++
	if err, ok := s.detailErrs[placeID]; ok {
		return nil, err
	}
	return s.details[placeID], nil
}

type stubAnalyzer struct {
	response string
	err      error
	prompts  []string
}

func (s *stubAnalyzer) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newDiscoveryService(t *testing.T, p *stubPlaces, a *stubAnalyzer) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Places:   p,
		Analyzer: a,
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Config:   config.DiscoveryConfig{SearchRadiusMeters: 2000, MaxResults: 5},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestFindCafesRejectsMissingLocation(t *testing.T) {
	svc := newDiscoveryService(t, &stubPlaces{}, &stubAnalyzer{})

	cases := []FindCafesRequest{
		{Latitude: 0, Longitude: 0},
		{Latitude: 51.5, Longitude: 0},
		{Latitude: 0, Longitude: -0.12},
	}
	for _, req := range cases {
		_, err := svc.FindCafes(context.Background(), req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", req, err)
		}
		if typed.Message() != "Location data not available" {
			t.Fatalf("unexpected message %q", typed.Message())
		}
	}
}

func TestFindCafesAssemblesResults(t *testing.T) {
	p := &stubPlaces{
		results: []places.SearchResult{
			{PlaceID: "p1", Name: "Cafe One", Rating: 4.4, FormattedAddress: "1 First St"},
			{PlaceID: "p2", Name: "Cafe Two", FormattedAddress: "2 Second St"},
		},
		details: map[string]*places.PlaceDetails{
			"p1": {FormattedAddress: "1 First Street, Springfield", Reviews: []places.Review{{Text: "Great flat white"}}},
			"p2": {Reviews: nil},
		},
	}
	a := &stubAnalyzer{response: "Flat White, Banh Mi"}
	svc := newDiscoveryService(t, p, a)

	resp, err := svc.FindCafes(context.Background(), FindCafesRequest{Latitude: 51.5, Longitude: -0.12})
	if err != nil {
		t.Fatalf("find cafes: %v", err)
	}
	if len(resp.Cafes) != 2 {
		t.Fatalf("expected 2 cafes, got %d", len(resp.Cafes))
	}

	first := resp.Cafes[0]
	if first.Name != "Cafe One" || first.Rating != "4.4" {
		t.Fatalf("unexpected first cafe %+v", first)
	}
	if first.Address != "1 First Street, Springfield" {
		t.Fatalf("details address should win: %q", first.Address)
	}
	if first.RecommendedDishes != "Flat White, Banh Mi" {
		t.Fatalf("unexpected dishes %q", first.RecommendedDishes)
	}

	second := resp.Cafes[1]
	if second.Rating != "N/A" {
		t.Fatalf("missing rating should render N/A, got %q", second.Rating)
	}
	if second.Address != "2 Second St" {
		t.Fatalf("search address fallback not applied: %q", second.Address)
	}
	if second.RecommendedDishes != noReviewsMessage {
		t.Fatalf("unexpected dishes for reviewless cafe: %q", second.RecommendedDishes)
	}
	if len(a.prompts) != 1 {
		t.Fatalf("analyzer should only be called for cafes with reviews, got %d calls", len(a.prompts))
	}
	if !strings.Contains(a.prompts[0], "Cafe Name: Cafe One") {
		t.Fatalf("prompt missing cafe name: %q", a.prompts[0])
	}
	if !strings.Contains(a.prompts[0], "Great flat white") {
		t.Fatalf("prompt missing review text: %q", a.prompts[0])
	}
}

func TestFindCafesLimitsToMaxResults(t *testing.T) {
	results := make([]places.SearchResult, 0, 8)
	details := map[string]*places.PlaceDetails{}
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		results = append(results, places.SearchResult{PlaceID: id, Name: "Cafe " + id})
		details[id] = &places.PlaceDetails{}
	}
	p := &stubPlaces{results: results, details: details}
	svc := newDiscoveryService(t, p, &stubAnalyzer{})

	resp, err := svc.FindCafes(context.Background(), FindCafesRequest{Latitude: 1, Longitude: 1})
	if err != nil {
		t.Fatalf("find cafes: %v", err)
	}
	if len(resp.Cafes) != 5 {
		t.Fatalf("expected top 5 cafes, got %d", len(resp.Cafes))
	}
	if p.calls != 5 {
		t.Fatalf("details should only be fetched for the top 5, got %d calls", p.calls)
	}
}

func TestFindCafesSearchFailureSurfacesStatus(t *testing.T) {
	p := &stubPlaces{searchErr: pkgerrors.Wrap(pkgerrors.CodeDependency, &places.APIStatusError{
		Endpoint: "text search",
		Status:   "REQUEST_DENIED",
	}, "text search request failed")}
	svc := newDiscoveryService(t, p, &stubAnalyzer{})

	_, err := svc.FindCafes(context.Background(), FindCafesRequest{Latitude: 1, Longitude: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if !strings.Contains(typed.Message(), "Failed to fetch nearby cafes: REQUEST_DENIED") {
		t.Fatalf("upstream status not surfaced: %q", typed.Message())
	}
}

func TestFindCafesSkipsFailedDetails(t *testing.T) {
	p := &stubPlaces{
		results: []places.SearchResult{
			{PlaceID: "ok", Name: "Working Cafe"},
			{PlaceID: "broken", Name: "Broken Cafe"},
		},
		details: map[string]*places.PlaceDetails{
			"ok": {},
		},
		detailErrs: map[string]error{
			"broken": pkgerrors.New(pkgerrors.CodeDependency, "place details request failed"),
		},
	}
	svc := newDiscoveryService(t, p, &stubAnalyzer{})

	resp, err := svc.FindCafes(context.Background(), FindCafesRequest{Latitude: 1, Longitude: 1})
	if err != nil {
		t.Fatalf("partial failure should not fail the request: %v", err)
	}
	if len(resp.Cafes) != 1 || resp.Cafes[0].Name != "Working Cafe" {
		t.Fatalf("expected only the working cafe, got %+v", resp.Cafes)
	}
}

func TestAnalyzeReviewsFallbacks(t *testing.T) {
	review := []places.Review{{Text: "Nice pastries"}}

	t.Run("generation error", func(t *testing.T) {
		a := &stubAnalyzer{err: pkgerrors.New(pkgerrors.CodeDependency, "status 500")}
		svc := newDiscoveryService(t, &stubPlaces{}, a).(*service)
		if got := svc.analyzeReviews(context.Background(), "Cafe", review); got != analysisErrorMessage {
			t.Fatalf("expected %q, got %q", analysisErrorMessage, got)
		}
	})

	t.Run("unexpected shape", func(t *testing.T) {
		a := &stubAnalyzer{err: pkgerrors.Wrap(pkgerrors.CodeDependency, genai.ErrUnexpectedResponse, "generate response missing candidates")}
		svc := newDiscoveryService(t, &stubPlaces{}, a).(*service)
		if got := svc.analyzeReviews(context.Background(), "Cafe", review); got != unexpectedShapeMessage {
			t.Fatalf("expected %q, got %q", unexpectedShapeMessage, got)
		}
	})

	t.Run("whitespace reviews skip the call", func(t *testing.T) {
		a := &stubAnalyzer{response: "should not be used"}
		svc := newDiscoveryService(t, &stubPlaces{}, a).(*service)
		got := svc.analyzeReviews(context.Background(), "Cafe", []places.Review{{Text: "   "}, {Text: ""}})
		if got != noReviewsMessage {
			t.Fatalf("expected %q, got %q", noReviewsMessage, got)
		}
		if len(a.prompts) != 0 {
			t.Fatalf("no outbound call expected, got %d", len(a.prompts))
		}
	})
}
