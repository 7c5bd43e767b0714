package service

// Default re-ranking constants for similarity results.
const (
	DefaultSentimentHighThreshold = 0.2
	DefaultSentimentLowThreshold  = -0.05
	DefaultSentimentBoost         = 0.05
	DefaultSentimentPenalty       = 0.05
	DefaultRatingThreshold        = 4.4
	DefaultRatingBoost            = 0.02
)

// RerankPolicy nudges similarity scores toward well-reviewed, well-rated products.
// Adjustments stay small relative to typical similarity gaps.
type RerankPolicy struct {
	// SentimentHighThreshold is the average sentiment at or above which SentimentBoost is added.
	SentimentHighThreshold float64
	// SentimentLowThreshold is the average sentiment at or below which SentimentPenalty is subtracted.
	SentimentLowThreshold float64
	SentimentBoost        float64
	SentimentPenalty      float64
	// RatingThreshold is the rating at or above which RatingBoost is added.
	RatingThreshold float64
	RatingBoost     float64
}

// DefaultRerankPolicy returns the policy built from the default constants.
func DefaultRerankPolicy() RerankPolicy {
	return RerankPolicy{
		SentimentHighThreshold: DefaultSentimentHighThreshold,
		SentimentLowThreshold:  DefaultSentimentLowThreshold,
		SentimentBoost:         DefaultSentimentBoost,
		SentimentPenalty:       DefaultSentimentPenalty,
		RatingThreshold:        DefaultRatingThreshold,
		RatingBoost:            DefaultRatingBoost,
	}
}

// SentimentAdjustment returns the score delta for an average sentiment.
func (p RerankPolicy) SentimentAdjustment(sentiment float64) float64 {
	switch {
	case sentiment >= p.SentimentHighThreshold:
		return p.SentimentBoost
	case sentiment <= p.SentimentLowThreshold:
		return -p.SentimentPenalty
	default:
		return 0
	}
}

// RatingAdjustment returns the score delta for a rating.
func (p RerankPolicy) RatingAdjustment(rating float64) float64 {
	if rating >= p.RatingThreshold {
		return p.RatingBoost
	}

	return 0
}

// Score combines a base similarity with the sentiment and rating adjustments.
func (p RerankPolicy) Score(similarity, sentiment, rating float64) float64 {
	return similarity + p.SentimentAdjustment(sentiment) + p.RatingAdjustment(rating)
}
