package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/internal/models"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"
)

const metadataCacheTTL = 24 * time.Hour

// MetadataService proxies an upstream movie database so that clients
// never talk to it directly and the API key stays server side.
type MetadataService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	cache   *mongo.Collection
}

type omdbMovie struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Poster string `json:"Poster"`
}

type omdbSearchResponse struct {
	Search   []omdbMovie `json:"Search"`
	Response string      `json:"Response"`
	Error    string      `json:"Error"`
}

func NewMetadataService(db *mongo.Database, cfg config.MetadataConfig) *MetadataService {
	return &MetadataService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		cache:   db.Collection("metadata_cache"),
	}
}

// SearchMovies looks up movies by title. Results are cached for a day
// keyed on the query; upstream failures surface as unavailable rather
// than leaking upstream details.
func (s *MetadataService) SearchMovies(query string) ([]models.WatchlistMovie, error) {
	cacheKey := "search:" + query
	if cached := s.fromCache(cacheKey); cached != nil {
		return cached, nil
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("s", query)

	var parsed omdbSearchResponse
	if err := s.fetch(params, &parsed); err != nil {
		return nil, err
	}

	if parsed.Response != "True" {
		// Upstream reports "Movie not found!" through its own envelope.
		return []models.WatchlistMovie{}, nil
	}

	movies := make([]models.WatchlistMovie, 0, len(parsed.Search))
	for _, m := range parsed.Search {
		movies = append(movies, toWatchlistMovie(m))
	}

	s.storeCache(cacheKey, movies)
	return movies, nil
}

// GetMovie looks up one movie by its upstream id.
func (s *MetadataService) GetMovie(movieID string) (*models.WatchlistMovie, error) {
	cacheKey := "movie:" + movieID
	if cached := s.fromCache(cacheKey); len(cached) == 1 {
		return &cached[0], nil
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("i", movieID)

	var parsed struct {
		omdbMovie
		Response string `json:"Response"`
	}
	if err := s.fetch(params, &parsed); err != nil {
		return nil, err
	}

	if parsed.Response != "True" {
		return nil, ErrEntryNotFound
	}

	movie := toWatchlistMovie(parsed.omdbMovie)
	s.storeCache(cacheKey, []models.WatchlistMovie{movie})
	return &movie, nil
}

func (s *MetadataService) fetch(params url.Values, out interface{}) error {
	resp, err := s.client.Get(s.baseURL + "?" + params.Encode())
	if err != nil {
		logger.LogError(err, "Movie metadata request failed", map[string]interface{}{
			"base_url": s.baseURL,
		})
		return ErrMetadataUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.LogError(fmt.Errorf("upstream status %d", resp.StatusCode), "Movie metadata request failed", map[string]interface{}{
			"base_url": s.baseURL,
		})
		return ErrMetadataUnavailable
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ErrMetadataUnavailable
	}

	return nil
}

func toWatchlistMovie(m omdbMovie) models.WatchlistMovie {
	thumbnail := m.Poster
	if thumbnail == "N/A" {
		thumbnail = ""
	}
	return models.WatchlistMovie{
		ID:        m.ImdbID,
		Title:     m.Title,
		Thumbnail: thumbnail,
		Year:      m.Year,
	}
}

func (s *MetadataService) fromCache(key string) []models.WatchlistMovie {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result struct {
		Key       string                  `bson:"key"`
		Movies    []models.WatchlistMovie `bson:"movies"`
		CreatedAt time.Time               `bson:"created_at"`
	}

	err := s.cache.FindOne(ctx, bson.M{
		"key":        key,
		"created_at": bson.M{"$gte": time.Now().Add(-metadataCacheTTL)},
	}).Decode(&result)
	if err != nil {
		return nil
	}

	return result.Movies
}

func (s *MetadataService) storeCache(key string, movies []models.WatchlistMovie) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.cache.InsertOne(ctx, bson.M{
		"key":        key,
		"movies":     movies,
		"created_at": time.Now(),
	})
	if err != nil {
		logger.LogError(err, "Failed to cache metadata result", map[string]interface{}{
			"key": key,
		})
	}
}
