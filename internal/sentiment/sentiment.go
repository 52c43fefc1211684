// Package sentiment scores recent headlines with a fixed wordlist. It is a
// deliberately simple, deterministic collaborator: no model, no network,
// and an empty headline list is neutral rather than an error.
package sentiment

import (
	"strings"

	"github.com/mcavalcanti/radar/internal/contracts"
)

// maxHeadlines caps how many headlines contribute to the score
const maxHeadlines = 5

var positiveWords = map[string]struct{}{
	"growth": {}, "profit": {}, "gain": {}, "increase": {}, "strong": {},
	"beat": {}, "exceed": {}, "positive": {}, "bullish": {}, "upgrade": {},
	"buy": {}, "outperform": {}, "record": {}, "success": {}, "expansion": {},
	"innovation": {}, "breakthrough": {}, "milestone": {},
}

var negativeWords = map[string]struct{}{
	"loss": {}, "decline": {}, "fall": {}, "weak": {}, "miss": {},
	"below": {}, "negative": {}, "bearish": {}, "downgrade": {}, "sell": {},
	"underperform": {}, "concern": {}, "risk": {}, "challenge": {},
	"problem": {}, "crisis": {}, "lawsuit": {}, "investigation": {},
}

// Analyze scores each headline as (positive-negative)/(positive+negative)
// word counts and averages across headlines. The result is in [-1, 1];
// no headlines, or none containing sentiment words, yields 0.
func Analyze(headlines []contracts.Headline) contracts.SentimentReport {
	if len(headlines) == 0 {
		return contracts.SentimentReport{Trend: "neutral"}
	}

	considered := headlines
	if len(considered) > maxHeadlines {
		considered = considered[:maxHeadlines]
	}

	var scores []float64
	for _, h := range considered {
		text := strings.ToLower(h.Title + " " + h.Summary)
		var pos, neg int
		for _, word := range strings.Fields(text) {
			word = strings.Trim(word, ".,:;!?'\"()")
			if _, ok := positiveWords[word]; ok {
				pos++
			}
			if _, ok := negativeWords[word]; ok {
				neg++
			}
		}
		if pos+neg > 0 {
			scores = append(scores, float64(pos-neg)/float64(pos+neg))
		}
	}

	avg := 0.0
	if len(scores) > 0 {
		for _, s := range scores {
			avg += s
		}
		avg /= float64(len(scores))
	}

	return contracts.SentimentReport{
		Score:     avg,
		Trend:     trend(avg),
		Headlines: len(headlines),
	}
}

func trend(score float64) string {
	switch {
	case score > 0.4:
		return "very_positive"
	case score > 0.2:
		return "positive"
	case score > -0.2:
		return "neutral"
	case score > -0.4:
		return "negative"
	default:
		return "very_negative"
	}
}
