package models

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// HeadlineSentiment pairs a news headline with its keyword-derived label.
type HeadlineSentiment struct {
	Headline string         `json:"headline"`
	Label    SentimentLabel `json:"label"`
}

// SentimentSnapshot aggregates per-headline sentiment for one symbol.
type SentimentSnapshot struct {
	Symbol    string              `json:"symbol"`
	Headlines []HeadlineSentiment `json:"headlines"`
	Positive  int                 `json:"positive"`
	Negative  int                 `json:"negative"`
	Neutral   int                 `json:"neutral"`
	Overall   SentimentLabel      `json:"overall"`
}

// Total returns the number of analyzed headlines.
func (s *SentimentSnapshot) Total() int {
	return s.Positive + s.Negative + s.Neutral
}

// HeadlineSentimentFor labels a single headline by strict majority of
// keyword counts; a tie is Neutral.
func HeadlineSentimentFor(positive, negative int) SentimentLabel {
	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// OverallSentimentFor is the plurality vote across headlines; ties,
// including zero headlines on both sides, resolve to Neutral.
func OverallSentimentFor(positive, negative int) SentimentLabel {
	return HeadlineSentimentFor(positive, negative)
}
