// Package catalog provides niche value types and pure functions.
// A niche is a curated app-idea opportunity with market analysis.
package catalog

import (
	"strings"
	"time"

	"github.com/nicheshunter/nicheshunter/domain/revenue"
)

// Stats holds the non-narrative, summary-level attributes of a niche.
// These are safe to return to any viewer.
type Stats struct {
	Competition    string  `json:"competition"`     // "low", "medium", "high"
	RevenueBracket string  `json:"revenue_bracket"` // e.g. "$5K-$10K/mo"
	MarketSize     string  `json:"market_size"`
	TimeToMVP      string  `json:"time_to_mvp"`
	Difficulty     float64 `json:"difficulty"` // 1-10
}

// Analysis holds the narrative fields that paid entitlement gates.
// None of these may appear, even truncated, in a locked projection.
type Analysis struct {
	Opportunity         string   `json:"opportunity,omitempty"`
	Gap                 string   `json:"gap,omitempty"`
	Move                string   `json:"move,omitempty"`
	MarketAnalysis      string   `json:"market_analysis,omitempty"`
	KeyLearnings        []string `json:"key_learnings,omitempty"`
	Improvements        []string `json:"improvements,omitempty"`
	MarketingStrategies []string `json:"marketing_strategies,omitempty"`
	TechStack           []string `json:"tech_stack,omitempty"`
	Risks               []string `json:"risks,omitempty"`
	TrendingApps        []string `json:"trending_apps,omitempty"`
	ASOKeywords         []string `json:"aso_keywords,omitempty"`
}

// Niche represents a catalog item (value type).
// DisplayCode is the only identifier exposed to clients; it is unique and
// immutable once assigned.
type Niche struct {
	ID          string   `json:"id"`
	DisplayCode string   `json:"display_code"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Score       float64  `json:"score"`
	SourceType  string   `json:"source_type,omitempty"` // tag, not a gate
	FreeTier    bool     `json:"free_tier"`

	Stats    Stats    `json:"stats"`
	Analysis Analysis `json:"analysis"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAnalysis reports whether any narrative field is populated.
func (n Niche) HasAnalysis() bool {
	a := n.Analysis
	return a.Opportunity != "" || a.Gap != "" || a.Move != "" ||
		a.MarketAnalysis != "" || len(a.KeyLearnings) > 0 ||
		len(a.Improvements) > 0 || len(a.MarketingStrategies) > 0 ||
		len(a.TechStack) > 0 || len(a.Risks) > 0 ||
		len(a.TrendingApps) > 0 || len(a.ASOKeywords) > 0
}

// FindByCode finds a niche by display code in a list.
// This is a PURE function.
func FindByCode(niches []Niche, code string) (Niche, bool) {
	for _, n := range niches {
		if n.DisplayCode == code {
			return n, true
		}
	}
	return Niche{}, false
}

// FilterByCategory returns niches matching a category (case-insensitive).
// This is a PURE function.
func FilterByCategory(niches []Niche, category string) []Niche {
	if category == "" {
		return niches
	}
	var result []Niche
	for _, n := range niches {
		if strings.EqualFold(n.Category, category) {
			result = append(result, n)
		}
	}
	return result
}

// FilterByRevenue returns niches whose revenue bracket overlaps the band.
// Niches whose bracket does not parse are excluded rather than matched.
// This is a PURE function.
func FilterByRevenue(niches []Niche, band revenue.Bracket) []Niche {
	var result []Niche
	for _, n := range niches {
		b, err := revenue.ParseBracket(n.Stats.RevenueBracket)
		if err != nil {
			continue
		}
		if b.Contains(band.Low) || b.Contains(band.High) || band.Contains(b.Low) {
			result = append(result, n)
		}
	}
	return result
}

// FilterFreeTier returns only free-tier niches.
// This is a PURE function.
func FilterFreeTier(niches []Niche) []Niche {
	var result []Niche
	for _, n := range niches {
		if n.FreeTier {
			result = append(result, n)
		}
	}
	return result
}

// HasTag reports whether the niche carries the given tag (case-insensitive).
func (n Niche) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
