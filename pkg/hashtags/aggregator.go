// Package hashtags derives ranked hashtag recommendations from batches of
// competitor/topic videos.
package hashtags

import (
	"regexp"
	"strings"
)

// Video is a single raw record from the metrics source.
type Video struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Views       int64
	Likes       int64
}

// Example is one video retained as evidence for a hashtag.
type Example struct {
	Title string `json:"title"`
	Views int64  `json:"views"`
	Likes int64  `json:"likes"`
}

// Stat accumulates per-tag usage during a single aggregation pass.
type Stat struct {
	Tag             string
	UsageCount      int
	TotalViews      int64
	TotalLikes      int64
	TotalEngagement float64
	Examples        []Example

	// seq is the tag's first-seen position in the pass; score ties rank in
	// this order.
	seq int
}

// Hashtags may be non-ASCII; \w would split them at the first
// non-ASCII rune.
var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// Aggregate builds per-hashtag statistics for a batch of videos.
//
// Hashtags are collected from two sources per video: `#word` tokens in the
// description and title, and platform tags that are literally prefixed with
// `#` (prefix stripped). Tags are lowercased and counted at most once per
// video. Iteration order of the returned map is undefined; Rank recovers the
// first-seen order from the stats themselves.
func Aggregate(videos []Video) map[string]*Stat {
	stats := make(map[string]*Stat)

	for _, video := range videos {
		tags := extractTags(video)
		if len(tags) == 0 {
			continue
		}

		engagement := float64(video.Views)*0.7 + float64(video.Likes)*0.3

		for _, tag := range tags {
			stat, ok := stats[tag]
			if !ok {
				stat = &Stat{Tag: tag, seq: len(stats)}
				stats[tag] = stat
			}

			stat.UsageCount++
			stat.TotalViews += video.Views
			stat.TotalLikes += video.Likes
			stat.TotalEngagement += engagement
			stat.Examples = append(stat.Examples, Example{
				Title: video.Title,
				Views: video.Views,
				Likes: video.Likes,
			})
		}
	}

	return stats
}

// extractTags returns the deduplicated, lowercased hashtags of one video.
func extractTags(video Video) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)

	add := func(tag string) {
		tag = strings.ToLower(tag)
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, match := range hashtagPattern.FindAllStringSubmatch(video.Description+" "+video.Title, -1) {
		add(match[1])
	}

	for _, tag := range video.Tags {
		if strings.HasPrefix(tag, "#") && len(tag) > 1 {
			add(tag[1:])
		}
	}

	return tags
}
