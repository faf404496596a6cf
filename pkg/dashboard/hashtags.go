package dashboard

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/echotube/echotube/pkg/hashtags"
	"github.com/echotube/echotube/pkg/session"
	"github.com/echotube/echotube/pkg/youtube"
)

// maxNicheKeywords bounds how many branding keywords join the topic queries.
const maxNicheKeywords = 3

// Hashtags derives tiered hashtag recommendations from popular videos in the
// caller's niche. A quota failure mid-iteration aborts the remaining topic
// queries; batches already fetched are still aggregated and scored.
func (s *service) Hashtags(ctx context.Context, sess *session.Session) (*HashtagsResponse, error) {
	src := s.sourceFor(ctx, sess)

	channel, err := src.MyChannel(ctx, "id", "topicDetails", "brandingSettings")
	if err != nil {
		return nil, err
	}

	queries, topics := nicheQueries(channel)

	var pool []hashtags.Video

	for _, query := range queries {
		batch, err := s.searchTopic(ctx, src, query)
		if err != nil {
			if errors.Is(err, youtube.ErrQuotaExceeded) {
				s.log.WithField("query", query).Warn("Quota exceeded during hashtag search, scoring partial results")
				break
			}

			s.log.WithError(err).WithField("query", query).Warn("Topic search failed, skipping")

			continue
		}

		pool = append(pool, batch...)
	}

	s.log.WithField("videos", len(pool)).Debug("Analyzing videos for hashtags")

	tiers := hashtags.Rank(hashtags.Aggregate(pool))

	return &HashtagsResponse{
		Hashtags:      tiers,
		ChannelTopics: topics,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *service) searchTopic(ctx context.Context, src Source, query string) ([]hashtags.Video, error) {
	ids, err := src.SearchTopicVideoIDs(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	videos, err := src.ListVideos(ctx, ids)
	if err != nil {
		return nil, err
	}

	batch := make([]hashtags.Video, 0, len(videos))
	for _, video := range videos {
		batch = append(batch, hashtags.Video{
			ID:          video.ID,
			Title:       video.Title,
			Description: video.Description,
			Tags:        video.Tags,
			Views:       video.ViewCount,
			Likes:       video.LikeCount,
		})
	}

	return batch, nil
}

// nicheQueries derives the search queries from the channel's topic categories
// and branding keywords, and the displayable topic names.
func nicheQueries(channel *youtube.Channel) (queries, topics []string) {
	topics = make([]string, 0, len(channel.TopicCategories))
	queries = make([]string, 0, len(channel.TopicCategories)+maxNicheKeywords)

	for _, category := range channel.TopicCategories {
		// Topic categories are knowledge-graph URLs; the last path segment
		// is the human-readable topic
		segment := category[strings.LastIndex(category, "/")+1:]
		topics = append(topics, segment)
		queries = append(queries, strings.ToLower(segment))
	}

	count := 0
	for _, keyword := range strings.Split(channel.Keywords, ",") {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}

		queries = append(queries, strings.ToLower(keyword))

		count++
		if count == maxNicheKeywords {
			break
		}
	}

	return queries, topics
}
