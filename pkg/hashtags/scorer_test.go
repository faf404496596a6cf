package hashtags

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_DropsTagsBelowMinUsage(t *testing.T) {
	stats := map[string]*Stat{
		"once": {Tag: "once", UsageCount: 1, TotalViews: 1000, TotalLikes: 100,
			Examples: []Example{{Views: 1000, Likes: 100}}},
		"twice": {Tag: "twice", UsageCount: 2, TotalViews: 200, TotalLikes: 20,
			Examples: []Example{{Views: 100, Likes: 10}, {Views: 100, Likes: 10}}},
	}

	tiers := Rank(stats)

	require.Len(t, tiers.Trending, 1)
	assert.Equal(t, "twice", tiers.Trending[0].Hashtag)
	assert.Empty(t, tiers.Popular)
	assert.Empty(t, tiers.Growing)
	assert.Empty(t, tiers.Niche)
}

func TestRank_ScoreArithmetic(t *testing.T) {
	// Two uses with views 100/50 and likes 10/5:
	//   avgViews = 75, avgLikes = 7.5
	//   75th percentile of [50,100] = 87.5, of [5,10] = 8.75
	//   frequency = min(2/5, 1) = 0.4
	//   score = (75/87.5)*0.4 + (7.5/8.75)*0.3 + 0.4*0.3 = 0.72
	stats := map[string]*Stat{
		"music": {
			Tag:        "music",
			UsageCount: 2,
			TotalViews: 150,
			TotalLikes: 15,
			Examples: []Example{
				{Title: "a", Views: 100, Likes: 10},
				{Title: "b", Views: 50, Likes: 5},
			},
		},
	}

	tiers := Rank(stats)

	require.Len(t, tiers.Trending, 1)
	got := tiers.Trending[0]
	assert.Equal(t, int64(75), got.AvgViews)
	assert.Equal(t, int64(7), got.AvgLikes) // int truncation of 7.5
	assert.Equal(t, 2, got.UsageCount)
	assert.InDelta(t, 0.72, got.Score, 1e-9)
}

func TestRank_SingleExamplePercentileFallsBackToAverage(t *testing.T) {
	// usageCount 2 but a single retained example: percentile uses the average
	stats := map[string]*Stat{
		"solo": {
			Tag:        "solo",
			UsageCount: 2,
			TotalViews: 200,
			TotalLikes: 0,
			Examples:   []Example{{Views: 200, Likes: 0}},
		},
	}

	tiers := Rank(stats)

	require.Len(t, tiers.Trending, 1)
	// avgViews/viewPercentile = 1; likes are all zero so the percentile guard
	// substitutes 1 and the like component collapses to 0
	assert.InDelta(t, 1*0.4+0*0.3+0.4*0.3, tiers.Trending[0].Score, 1e-9)
}

func TestRank_Deterministic(t *testing.T) {
	stats := make(map[string]*Stat)
	for i := 0; i < 30; i++ {
		tag := fmt.Sprintf("tag%02d", i)
		stats[tag] = &Stat{
			Tag:        tag,
			UsageCount: 3,
			TotalViews: 300,
			TotalLikes: 30,
			Examples: []Example{
				{Views: 100, Likes: 10}, {Views: 100, Likes: 10}, {Views: 100, Likes: 10},
			},
		}
	}

	first := Rank(stats)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Rank(stats))
	}
}

func TestRank_TiesKeepFirstSeenOrder(t *testing.T) {
	// zebra and apple score identically; zebra appears first in the pass and
	// must rank ahead of the lexically smaller apple
	videos := []Video{
		{Title: "one #zebra #apple", Views: 100, Likes: 10},
		{Title: "two #zebra #apple", Views: 100, Likes: 10},
	}

	tiers := Rank(Aggregate(videos))

	require.Len(t, tiers.Trending, 2)
	assert.InDelta(t, tiers.Trending[0].Score, tiers.Trending[1].Score, 1e-9)
	assert.Equal(t, "zebra", tiers.Trending[0].Hashtag)
	assert.Equal(t, "apple", tiers.Trending[1].Hashtag)
}

func TestRank_TierPartition(t *testing.T) {
	tests := []struct {
		name      string
		tags      int
		wantSizes [4]int
	}{
		{name: "more than twenty", tags: 23, wantSizes: [4]int{5, 5, 5, 5}},
		{name: "exactly twenty", tags: 20, wantSizes: [4]int{5, 5, 5, 5}},
		{name: "seven qualify", tags: 7, wantSizes: [4]int{5, 2, 0, 0}},
		{name: "three qualify", tags: 3, wantSizes: [4]int{3, 0, 0, 0}},
		{name: "none qualify", tags: 0, wantSizes: [4]int{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := make(map[string]*Stat)
			for i := 0; i < tt.tags; i++ {
				tag := fmt.Sprintf("tag%02d", i)
				// Descending views so rank order is predictable
				views := int64((tt.tags - i) * 100)
				stats[tag] = &Stat{
					Tag:        tag,
					UsageCount: 2,
					TotalViews: views * 2,
					TotalLikes: 20,
					Examples: []Example{
						{Views: views, Likes: 10},
						{Views: views, Likes: 10},
					},
				}
			}

			tiers := Rank(stats)

			assert.Len(t, tiers.Trending, tt.wantSizes[0])
			assert.Len(t, tiers.Popular, tt.wantSizes[1])
			assert.Len(t, tiers.Growing, tt.wantSizes[2])
			assert.Len(t, tiers.Niche, tt.wantSizes[3])

			// Concatenating the tiers reproduces the ranked list in order
			all := append(append(append(append([]Score{}, tiers.Trending...),
				tiers.Popular...), tiers.Growing...), tiers.Niche...)
			want := tt.tags
			if want > 20 {
				want = 20
			}
			require.Len(t, all, want)
			for i := 1; i < len(all); i++ {
				assert.GreaterOrEqual(t, all[i-1].Score, all[i].Score)
			}
		})
	}
}

func TestRank_ExamplesTruncatedToTopThreeByViews(t *testing.T) {
	stats := map[string]*Stat{
		"big": {
			Tag:        "big",
			UsageCount: 5,
			TotalViews: 1500,
			TotalLikes: 50,
			Examples: []Example{
				{Title: "c", Views: 300}, {Title: "a", Views: 100},
				{Title: "e", Views: 500}, {Title: "b", Views: 200},
				{Title: "d", Views: 400},
			},
		},
	}

	tiers := Rank(stats)

	require.Len(t, tiers.Trending, 1)
	examples := tiers.Trending[0].ExampleVideos
	require.Len(t, examples, 3)
	assert.Equal(t, "e", examples[0].Title)
	assert.Equal(t, "d", examples[1].Title)
	assert.Equal(t, "c", examples[2].Title)
}

func TestRank_EmptyInput(t *testing.T) {
	tiers := Rank(map[string]*Stat{})

	assert.Empty(t, tiers.Trending)
	assert.Empty(t, tiers.Popular)
	assert.Empty(t, tiers.Growing)
	assert.Empty(t, tiers.Niche)
}
