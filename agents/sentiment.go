package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock-analysis/config"
	"stock-analysis/models"
	"stock-analysis/observability"
	"stock-analysis/services"
)

// Keyword lists for headline classification. Matching is by substring
// presence on the lowercased headline; each keyword scores at most once
// per headline.
var positiveKeywords = []string{
	"gain", "up", "rise", "surge", "soar", "rally", "beat", "strong", "growth",
	"profit", "bullish", "optimistic", "upgrade", "buy", "positive", "boost",
	"momentum", "recovery", "record", "high", "expand", "success", "innovation",
	"lead", "acquire", "launch",
}

var negativeKeywords = []string{
	"fall", "drop", "plunge", "decline", "slide", "loss", "miss", "disappoint",
	"weak", "risk", "bearish", "pessimistic", "downgrade", "sell", "negative",
	"slow", "warning", "cut", "lawsuit", "volatile", "uncertainty", "struggle",
	"debt", "investigation", "reduction", "recall",
}

// headlinePageSize is how many articles one analysis requests
const headlinePageSize = 50

// maxRenderedHeadlines caps the headline list in the report
const maxRenderedHeadlines = 20

// SentimentAgent fetches recent news and scores headline sentiment.
type SentimentAgent struct {
	service *services.NewsAPIService
	hasKey  bool
}

// NewSentimentAgent creates the sentiment fetcher from config
func NewSentimentAgent(cfg *config.Config) *SentimentAgent {
	timeout := time.Duration(cfg.Fetcher.TimeoutSeconds) * time.Second
	return &SentimentAgent{
		service: services.NewNewsAPIService(cfg.NewsAPI.APIKey, cfg.NewsAPI.BaseURL, timeout),
		hasKey:  cfg.HasNewsAPI(),
	}
}

// Report fetches recent headlines for a symbol and renders the
// sentiment summary.
func (a *SentimentAgent) Report(ctx context.Context, symbol string) string {
	if !a.hasKey {
		return "Error: News API key not configured."
	}

	symbol = models.NormalizeSymbol(symbol)
	log := observability.WithSymbol(symbol)

	query := fmt.Sprintf("%s stock OR %s company", symbol, symbol)
	articles, err := a.service.GetEverything(ctx, query, headlinePageSize)
	if err != nil {
		log.Warn("news fetch failed", "error", err)
		return err.Error()
	}
	if len(articles) == 0 {
		return fmt.Sprintf("No recent news found for %s", symbol)
	}

	headlines := make([]string, 0, len(articles))
	for _, article := range articles {
		if article.Title != "" && article.Title != "[Removed]" {
			headlines = append(headlines, article.Title)
		}
	}
	if len(headlines) == 0 {
		return fmt.Sprintf("No valid headlines found for %s", symbol)
	}

	snapshot := buildSentimentSnapshot(symbol, headlines)
	return formatSentimentReport(snapshot)
}

// buildSentimentSnapshot scores each headline and aggregates the counts
func buildSentimentSnapshot(symbol string, headlines []string) *models.SentimentSnapshot {
	snapshot := &models.SentimentSnapshot{Symbol: symbol}

	for _, headline := range headlines {
		label := scoreHeadline(headline)
		switch label {
		case models.SentimentPositive:
			snapshot.Positive++
		case models.SentimentNegative:
			snapshot.Negative++
		default:
			snapshot.Neutral++
		}
		snapshot.Headlines = append(snapshot.Headlines, models.HeadlineSentiment{
			Headline: headline,
			Label:    label,
		})
	}

	snapshot.Overall = models.OverallSentimentFor(snapshot.Positive, snapshot.Negative)
	return snapshot
}

// scoreHeadline counts keyword presence on the lowercased headline and
// classifies by strict majority.
func scoreHeadline(headline string) models.SentimentLabel {
	lower := strings.ToLower(headline)

	positive := 0
	for _, word := range positiveKeywords {
		if strings.Contains(lower, word) {
			positive++
		}
	}
	negative := 0
	for _, word := range negativeKeywords {
		if strings.Contains(lower, word) {
			negative++
		}
	}

	return models.HeadlineSentimentFor(positive, negative)
}

func formatSentimentReport(s *models.SentimentSnapshot) string {
	total := s.Total()

	var b strings.Builder
	fmt.Fprintf(&b, "📰 SENTIMENT ANALYSIS: %s\n\n", s.Symbol)
	fmt.Fprintf(&b, "OVERALL SENTIMENT: %s\n", s.Overall)
	fmt.Fprintf(&b, "Headlines Analyzed: %d\n\n", total)
	b.WriteString("BREAKDOWN:\n")
	fmt.Fprintf(&b, "• Positive: %d (%.0f%%)\n", s.Positive, percentOf(s.Positive, total))
	fmt.Fprintf(&b, "• Negative: %d (%.0f%%)\n", s.Negative, percentOf(s.Negative, total))
	fmt.Fprintf(&b, "• Neutral: %d (%.0f%%)\n\n", s.Neutral, percentOf(s.Neutral, total))
	b.WriteString("RECENT HEADLINES:")

	shown := s.Headlines
	if len(shown) > maxRenderedHeadlines {
		shown = shown[:maxRenderedHeadlines]
	}
	for _, h := range shown {
		fmt.Fprintf(&b, "\n• %s [%s]", h.Headline, h.Label)
	}

	return b.String()
}

func percentOf(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
