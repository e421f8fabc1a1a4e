package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stock-analysis/models"
	"stock-analysis/observability"
	"stock-analysis/services"
)

// systemPrompt fixes the analyst persona, the tool usage guidelines,
// the error-handling protocol and the seven-section output structure.
const systemPrompt = `You are an expert financial analyst AI. Your task is to provide a simple stock analysis for the requested symbol.

**TOOL USAGE GUIDELINES:**
1. **get_stock_price**: Current price, daily changes, moving averages, technical trends (Alpha Vantage)
2. **get_financials**: Company info, financial ratios, fundamental analysis (Finnhub)
3. **get_sentiment**: Market sentiment from recent news headlines (NewsAPI)

**ERROR HANDLING PROTOCOL:**
- If a tool returns an error message (contains "Error:", "API key", "rate limit"), acknowledge it clearly
- Do NOT retry failed tools immediately
- Continue analysis with available data
- Clearly state what data is missing and why

**OUTPUT STRUCTURE:**
1. **Executive Summary** (2-3 sentences)
2. **Current Market Data** (price, changes, trends)
3. **Financial Health** (key ratios and metrics)
4. **Market Sentiment** (news-based sentiment analysis)
5. **Analysis & Recommendation** (Buy/Hold/Sell with reasoning)
6. **Key Risks & Opportunities**
7. **Data Quality Note** (mention any missing data)

**PROFESSIONAL TONE:**
- Use clear, confident language
- Provide specific numbers and percentages
- Give actionable insights
- No standard disclaimers needed`

// dataSources is the fixed source list in the report header
const dataSources = "Alpha Vantage + Finnhub + NewsAPI"

// Fetcher produces a formatted report string for one symbol. The three
// agents satisfy this.
type Fetcher interface {
	Report(ctx context.Context, symbol string) string
}

// Coordinator wires the three fetchers into a model-driven analysis.
type Coordinator struct {
	runner *Runner
	now    func() time.Time
}

// New creates a coordinator over the given model and fetchers, bounded
// to maxIterations tool-call rounds per analysis.
func New(model services.ChatModel, price, fundamentals, sentiment Fetcher, maxIterations int) *Coordinator {
	registry := NewRegistry(
		SymbolTool("get_stock_price",
			"Gets current price, daily change, 20/50-day moving averages and a basic trend read for a stock symbol.",
			price.Report),
		SymbolTool("get_financials",
			"Gets company info, key valuation and profitability ratios and a simple assessment for a stock symbol.",
			fundamentals.Report),
		SymbolTool("get_sentiment",
			"Analyzes recent news headlines for a stock symbol and classifies market sentiment.",
			sentiment.Report),
	)

	return &Coordinator{
		runner: NewRunner(model, registry, maxIterations),
		now:    time.Now,
	}
}

// Analyze runs one full analysis for a symbol. The returned report
// always carries readable text: run failures render as diagnostic
// messages rather than errors. Only context cancellation propagates.
func (c *Coordinator) Analyze(ctx context.Context, symbol string) (*models.AnalysisReport, error) {
	symbol = models.NormalizeSymbol(symbol)
	runID := uuid.New()
	log := observability.WithSymbol(symbol).With("run_id", runID.String())

	metrics := observability.GetMetrics()
	metrics.RecordAnalysisRequest(symbol)
	timer := metrics.NewTimer()

	log.Info("analysis started")

	query := userQuery(symbol)
	output, err := c.runner.Run(ctx, runID.String(), systemPrompt, query)

	report := &models.AnalysisReport{
		ID:          runID,
		Symbol:      symbol,
		DataSources: []string{"Alpha Vantage", "Finnhub", "NewsAPI"},
		GeneratedAt: c.now(),
	}

	switch {
	case err == nil:
		report.Analysis = header(symbol, report.GeneratedAt) + output
		timer.ObserveAnalysis(symbol, "success")
		log.Info("analysis finished")
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		metrics.RecordAnalysisError(symbol, "timeout")
		timer.ObserveAnalysis(symbol, "timeout")
		log.Error("analysis cancelled", "error", err)
		return nil, err
	case errors.Is(err, ErrNoOutput):
		report.Analysis = parsingDiagnostic(symbol, err)
		metrics.RecordAnalysisError(symbol, "parse_error")
		timer.ObserveAnalysis(symbol, "parse_error")
		log.Error("analysis failed", "error", err)
	default:
		report.Analysis = unexpectedDiagnostic(symbol, err)
		metrics.RecordAnalysisError(symbol, "agent_error")
		timer.ObserveAnalysis(symbol, "agent_error")
		log.Error("analysis failed", "error", err)
	}

	return report, nil
}

// userQuery is the fixed analysis request sent as the first user turn
func userQuery(symbol string) string {
	return fmt.Sprintf(`Analyze the stock %s using all available tools.

Please:
1. Get current price data and technical analysis
2. Get financial metrics and company fundamentals
3. Check recent market sentiment from news
4. Provide a complete investment analysis with Buy/Hold/Sell recommendation

Use all three tools and provide analysis based on whatever data you can gather.`, symbol)
}

// header prefixes a successful analysis with the symbol, source list
// and generation timestamp.
func header(symbol string, generatedAt time.Time) string {
	return fmt.Sprintf("🎯 STOCK ANALYSIS REPORT: %s\nData Sources: %s\nGenerated: %s\n\n",
		symbol, dataSources, generatedAt.Format("2006-01-02 15:04"))
}

// configChecklist names the environment every full analysis depends on
func configChecklist() string {
	return strings.Join([]string{
		"- OPENAI_API_KEY (for the AI agent)",
		"- ALPHA_VANTAGE_API_KEY (for price data)",
		"- FINNHUB_API_KEY (for financial data)",
		"- NEWS_API_KEY (for sentiment analysis)",
	}, "\n")
}

// parsingDiagnostic covers a run that ended without usable model output
func parsingDiagnostic(symbol string, err error) string {
	return fmt.Sprintf(`❌ ANALYSIS ERROR: %s

The AI agent encountered a parsing error while processing your request.

Error Details: %s

SUGGESTED SOLUTIONS:
1. Try again with another query
2. Check if your API keys are properly configured:
%s
3. Verify the stock symbol is correct`, symbol, err, configChecklist())
}

// unexpectedDiagnostic covers every other run failure
func unexpectedDiagnostic(symbol string, err error) string {
	return fmt.Sprintf(`❌ UNEXPECTED ERROR: %s

An unexpected error occurred during the stock analysis.

Error Details: %s

TROUBLESHOOTING:
1. Verify your API keys are configured:
%s
2. Check your internet connection
3. Ensure the stock symbol is valid`, symbol, err, configChecklist())
}
