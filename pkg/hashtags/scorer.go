package hashtags

import (
	"math"
	"sort"
)

const (
	// minUsage is the minimum number of videos a tag must appear in before it
	// carries enough signal to score.
	minUsage = 2

	// topN is the number of ranked tags partitioned into tiers.
	topN = 20

	// tierSize is the width of each rank band.
	tierSize = 5
)

// Score is the derived effectiveness record for a single hashtag.
type Score struct {
	Hashtag       string    `json:"hashtag"`
	Score         float64   `json:"score"`
	UsageCount    int       `json:"usage_count"`
	AvgViews      int64     `json:"avg_views"`
	AvgLikes      int64     `json:"avg_likes"`
	ExampleVideos []Example `json:"example_videos"`
}

// Tiers partitions the top-ranked hashtags into fixed rank bands.
type Tiers struct {
	Trending []Score `json:"trending"`
	Popular  []Score `json:"popular"`
	Growing  []Score `json:"growing"`
	Niche    []Score `json:"niche"`
}

// Rank filters, scores and partitions aggregated hashtag statistics.
//
// Tags used fewer than twice are dropped. The remainder are scored by
// percentile-normalized views and likes plus a frequency component, ranked
// descending, truncated to the top 20 and split into four tiers of five.
// Candidates are traversed in first-seen aggregation order before the stable
// score sort, so score ties keep the order the tags were encountered in and
// identical input always yields identical output.
func Rank(stats map[string]*Stat) Tiers {
	candidates := make([]*Stat, 0, len(stats))
	for _, stat := range stats {
		candidates = append(candidates, stat)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].seq != candidates[j].seq {
			return candidates[i].seq < candidates[j].seq
		}

		return candidates[i].Tag < candidates[j].Tag
	})

	scores := make([]Score, 0, len(candidates))

	for _, stat := range candidates {
		if stat.UsageCount < minUsage {
			continue
		}

		avgViews := float64(stat.TotalViews) / float64(stat.UsageCount)
		avgLikes := float64(stat.TotalLikes) / float64(stat.UsageCount)
		frequencyScore := math.Min(float64(stat.UsageCount)/5, 1)

		viewPercentile := avgViews
		likePercentile := avgLikes
		if len(stat.Examples) >= 2 {
			views := make([]float64, len(stat.Examples))
			likes := make([]float64, len(stat.Examples))
			for i, ex := range stat.Examples {
				views[i] = float64(ex.Views)
				likes[i] = float64(ex.Likes)
			}
			viewPercentile = percentile(views, 75)
			likePercentile = percentile(likes, 75)
		}

		// Guard against division by zero
		if viewPercentile == 0 {
			viewPercentile = 1
		}
		if likePercentile == 0 {
			likePercentile = 1
		}

		finalScore := (avgViews/viewPercentile)*0.4 +
			(avgLikes/likePercentile)*0.3 +
			frequencyScore*0.3

		scores = append(scores, Score{
			Hashtag:       stat.Tag,
			Score:         finalScore,
			UsageCount:    stat.UsageCount,
			AvgViews:      int64(avgViews),
			AvgLikes:      int64(avgLikes),
			ExampleVideos: topExamples(stat.Examples, 3),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	if len(scores) > topN {
		scores = scores[:topN]
	}

	return Tiers{
		Trending: band(scores, 0),
		Popular:  band(scores, 1),
		Growing:  band(scores, 2),
		Niche:    band(scores, 3),
	}
}

// percentile computes the p-th percentile of sample using linear
// interpolation over the sorted values.
func percentile(sample []float64, p float64) float64 {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}

	frac := rank - float64(lo)

	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// topExamples returns up to n examples sorted by views descending.
func topExamples(examples []Example, n int) []Example {
	sorted := make([]Example, len(examples))
	copy(sorted, examples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Views > sorted[j].Views
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

// band slices out the i-th fixed-size tier; short or empty tails are never
// padded.
func band(scores []Score, i int) []Score {
	start := i * tierSize
	if start > len(scores) {
		start = len(scores)
	}

	end := start + tierSize
	if end > len(scores) {
		end = len(scores)
	}

	return scores[start:end]
}
