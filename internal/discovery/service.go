package discovery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dishcovery-app/dishcovery-backend/pkg/config"
	pkgerrors "github.com/dishcovery-app/dishcovery-backend/pkg/errors"
	"github.com/dishcovery-app/dishcovery-backend/pkg/genai"
	"github.com/dishcovery-app/dishcovery-backend/pkg/logger"
	"github.com/dishcovery-app/dishcovery-backend/pkg/places"
	"go.uber.org/multierr"
)

const (
	noReviewsMessage          = "No reviews available for analysis"
	analysisErrorMessage      = "Error analyzing reviews"
	unexpectedShapeMessage    = "Error: Unexpected response structure"
	addressUnavailableMessage = "Address not available"
)

type placesAPI interface {
	SearchCafes(ctx context.Context, req places.SearchRequest) ([]places.SearchResult, error)
	FetchDetails(ctx context.Context, placeID string) (*places.PlaceDetails, error)
}

type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ServiceParams groups dependencies for the discovery service.
type ServiceParams struct {
	Places   placesAPI
	Analyzer textGenerator
	Logger   *logger.Logger
	Config   config.DiscoveryConfig
}

// Service finds nearby cafes and annotates them with dish recommendations.
type Service interface {
	FindCafes(ctx context.Context, req FindCafesRequest) (*FindCafesResponse, error)
}

type service struct {
	places   placesAPI
	analyzer textGenerator
	logg     *logger.Logger
	cfg      config.DiscoveryConfig
}

// NewService builds a discovery service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Places == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "places client is required")
	}
	if params.Analyzer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "analyzer client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	cfg := params.Config
	if cfg.SearchRadiusMeters <= 0 {
		cfg.SearchRadiusMeters = 2000
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	return &service{
		places:   params.Places,
		analyzer: params.Analyzer,
		logg:     params.Logger,
		cfg:      cfg,
	}, nil
}

// FindCafes runs the search/details/analysis pipeline for the caller's location.
func (s *service) FindCafes(ctx context.Context, req FindCafesRequest) (*FindCafesResponse, error) {
	// A zero coordinate is treated as "no location"; the null-island case is
	// rejected along with it.
	if req.Latitude == 0 || req.Longitude == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Location data not available")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"lat": req.Latitude,
		"lng": req.Longitude,
	})
	s.logg.Info(ctx, "searching for nearby cafes")

	results, err := s.places.SearchCafes(ctx, places.SearchRequest{
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: s.cfg.SearchRadiusMeters,
	})
	if err != nil {
		var statusErr *places.APIStatusError
		if errors.As(err, &statusErr) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("Failed to fetch nearby cafes: %s", statusErr.Status))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to fetch nearby cafes")
	}

	if len(results) > s.cfg.MaxResults {
		results = results[:s.cfg.MaxResults]
	}

	cafes := make([]CafeDTO, 0, len(results))
	var detailErrs error
	for _, result := range results {
		details, err := s.places.FetchDetails(ctx, result.PlaceID)
		if err != nil {
			// Partial results are fine; a cafe whose details cannot be
			// fetched is dropped rather than failing the request.
			detailErrs = multierr.Append(detailErrs, fmt.Errorf("place %s: %w", result.PlaceID, err))
			continue
		}
		cafes = append(cafes, s.assembleCafe(ctx, result, details))
	}
	if detailErrs != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", detailErrs.Error()), "skipped cafes with failed detail lookups")
	}

	s.logg.Info(s.logg.WithField(ctx, "count", len(cafes)), "assembled cafe recommendations")
	return &FindCafesResponse{Cafes: cafes}, nil
}

func (s *service) assembleCafe(ctx context.Context, result places.SearchResult, details *places.PlaceDetails) CafeDTO {
	address := details.FormattedAddress
	if address == "" {
		address = result.FormattedAddress
	}
	if address == "" {
		address = addressUnavailableMessage
	}

	rating := "N/A"
	if result.Rating > 0 {
		rating = strconv.FormatFloat(result.Rating, 'f', -1, 64)
	}

	return CafeDTO{
		Name:              result.Name,
		Rating:            rating,
		Address:           address,
		RecommendedDishes: s.analyzeReviews(ctx, result.Name, details.Reviews),
	}
}

// analyzeReviews asks the generative model for positively mentioned dishes.
// Analysis failures never fail the discovery request; they degrade to fixed
// placeholder strings.
func (s *service) analyzeReviews(ctx context.Context, cafeName string, reviews []places.Review) string {
	texts := make([]string, 0, len(reviews))
	for _, review := range reviews {
		if strings.TrimSpace(review.Text) != "" {
			texts = append(texts, review.Text)
		}
	}
	if len(texts) == 0 {
		return noReviewsMessage
	}

	prompt := buildAnalysisPrompt(cafeName, texts)
	dishes, err := s.analyzer.GenerateText(ctx, prompt)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"cafe":  cafeName,
			"error": err.Error(),
		}), "review analysis failed")
		if errors.Is(err, genai.ErrUnexpectedResponse) {
			return unexpectedShapeMessage
		}
		return analysisErrorMessage
	}
	return dishes
}

func buildAnalysisPrompt(cafeName string, reviewTexts []string) string {
	var b strings.Builder
	b.WriteString("Task: Analyze cafe reviews and identify recommended dishes.\n\n")
	b.WriteString("Cafe Name: ")
	b.WriteString(cafeName)
	b.WriteString("\n\nReviews:\n")
	b.WriteString(strings.Join(reviewTexts, " | "))
	b.WriteString("\n\nInstructions:\n")
	b.WriteString("1. Identify dishes, beverages, or food items that are mentioned positively\n")
	b.WriteString("2. Focus on items that are specifically named or clearly described\n")
	b.WriteString("3. If no specific dishes are mentioned, identify the type of food/beverages they're known for\n")
	b.WriteString("4. Limit to 3-5 most recommended items\n\n")
	b.WriteString("Format your response as a simple comma-separated list of items.\n")
	b.WriteString(`Example format: "Cappuccino, Chocolate Croissant, Blueberry Muffin"` + "\n\n")
	b.WriteString(`If no specific items can be identified, respond with: "No specific dishes mentioned"`)
	return b.String()
}
