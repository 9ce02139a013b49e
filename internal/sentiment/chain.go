package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"PeakWatch/internal/model"
)

// Default endpoints for the fear & greed index. Both are unauthenticated
// public surfaces that break without notice; the chain absorbs that.
const (
	DefaultPrimaryURL   = "https://production.dataviz.cnn.io/index/fearandgreed/graphdata"
	DefaultSecondaryURL = "https://edition.cnn.com/markets/fear-and-greed"
)

// scorePattern pulls the first 1-3 digit number that follows a "score" token
// out of an HTML document.
var scorePattern = regexp.MustCompile(`(?i)score[^0-9]{0,24}(\d{1,3})`)

// Chain resolves a sentiment score through four tiers, in order: primary
// JSON endpoint, secondary HTML surface, local volatility proxy, fixed
// placeholder. Resolve never fails.
type Chain struct {
	PrimaryURL       string
	SecondaryURL     string
	PlaceholderScore float64
	Client           *http.Client
}

// NewChain creates a chain with optional proxy support. Empty URLs fall back
// to the default public endpoints.
func NewChain(primaryURL, secondaryURL string, placeholderScore float64, proxyURL string) *Chain {
	if primaryURL == "" {
		primaryURL = DefaultPrimaryURL
	}
	if secondaryURL == "" {
		secondaryURL = DefaultSecondaryURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Chain{
		PrimaryURL:       primaryURL,
		SecondaryURL:     secondaryURL,
		PlaceholderScore: placeholderScore,
		Client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
	}
}

// Resolve returns a usable sentiment score regardless of network state.
// vol is the tick's volatility index value; volOK reports whether it was
// fetched successfully this tick.
func (c *Chain) Resolve(ctx context.Context, vol float64, volOK bool) model.SentimentScore {
	score, err := c.fetchPrimary(ctx)
	if err == nil {
		return score
	}
	log.Printf("[WARN] primary sentiment source failed: %v", err)

	score, err = c.fetchSecondary(ctx)
	if err == nil {
		return score
	}
	log.Printf("[WARN] secondary sentiment source failed: %v", err)

	if volOK {
		return ProxyFromVolatility(vol)
	}

	return model.SentimentScore{
		Score:      c.PlaceholderScore,
		Label:      "Unavailable",
		Provenance: model.ProvenancePlaceholder,
	}
}

// primaryPayload matches the CNN fear & greed graphdata layout.
type primaryPayload struct {
	FearAndGreed struct {
		Score  *float64 `json:"score"`
		Rating string   `json:"rating"`
	} `json:"fear_and_greed"`
	// Flat variants of the same feed.
	Score  *float64 `json:"score"`
	Rating string   `json:"rating"`
}

func (c *Chain) fetchPrimary(ctx context.Context) (model.SentimentScore, error) {
	body, err := c.get(ctx, c.PrimaryURL)
	if err != nil {
		return model.SentimentScore{}, err
	}

	var payload primaryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.SentimentScore{}, fmt.Errorf("decode sentiment: %w", err)
	}

	var score float64
	rating := payload.FearAndGreed.Rating
	switch {
	case payload.FearAndGreed.Score != nil:
		score = *payload.FearAndGreed.Score
	case payload.Score != nil:
		score = *payload.Score
		if payload.Rating != "" {
			rating = payload.Rating
		}
	default:
		return model.SentimentScore{}, fmt.Errorf("no score field in payload")
	}
	if score < 0 || score > 100 {
		return model.SentimentScore{}, fmt.Errorf("score %.1f out of range", score)
	}
	label := rating
	if label == "" {
		label = LabelFor(score)
	}
	return model.SentimentScore{
		Score:      score,
		Label:      label,
		Provenance: model.ProvenancePrimary,
	}, nil
}

func (c *Chain) fetchSecondary(ctx context.Context) (model.SentimentScore, error) {
	body, err := c.get(ctx, c.SecondaryURL)
	if err != nil {
		return model.SentimentScore{}, err
	}

	m := scorePattern.FindSubmatch(body)
	if m == nil {
		return model.SentimentScore{}, fmt.Errorf("no score found in page")
	}
	score, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil || score < 0 || score > 100 {
		return model.SentimentScore{}, fmt.Errorf("implausible score %q", m[1])
	}
	return model.SentimentScore{
		Score:      score,
		Label:      LabelFor(score),
		Provenance: model.ProvenanceSecondary,
	}, nil
}

func (c *Chain) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sentiment fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sentiment read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sentiment: status %d", resp.StatusCode)
	}
	return body, nil
}

// ProxyFromVolatility derives a substitute score from the volatility index:
// low volatility reads as greed, high volatility as fear.
func ProxyFromVolatility(vol float64) model.SentimentScore {
	score := math.Round(100 - vol*2)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return model.SentimentScore{
		Score:      score,
		Label:      LabelFor(score),
		Provenance: model.ProvenanceDerived,
	}
}

// LabelFor buckets a score into the standard five fear/greed bands.
func LabelFor(score float64) string {
	switch {
	case score <= 25:
		return "Extreme Fear"
	case score <= 45:
		return "Fear"
	case score <= 55:
		return "Neutral"
	case score <= 75:
		return "Greed"
	default:
		return "Extreme Greed"
	}
}
