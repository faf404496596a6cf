package dashboard

import (
	"context"

	"github.com/echotube/echotube/pkg/cache"
	"github.com/echotube/echotube/pkg/fallback"
	"github.com/echotube/echotube/pkg/session"
)

// Videos resolves the caller's recent videos through the degradation policy.
func (s *service) Videos(ctx context.Context, sess *session.Session) (*fallback.Result, error) {
	src := s.sourceFor(ctx, sess)

	return s.policy.Fetch(ctx, cache.CategoryVideos, sess.CallerKey(), sess.Raw(),
		func(ctx context.Context) (any, error) {
			return s.fetchVideos(ctx, src)
		},
		func() any { return demoVideosResponse() },
	)
}

// fetchVideos performs the live retrieval: channel lookup, recency search,
// then one bulk statistics call.
func (s *service) fetchVideos(ctx context.Context, src Source) (*VideosResponse, error) {
	channel, err := src.MyChannel(ctx, "id", "contentDetails")
	if err != nil {
		return nil, err
	}

	recent, err := src.SearchChannelVideos(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(recent))
	for _, video := range recent {
		ids = append(ids, video.ID)
	}

	summaries := make([]VideoSummary, 0, len(recent))
	for _, video := range recent {
		summaries = append(summaries, VideoSummary{
			ID:          video.ID,
			Title:       video.Title,
			Description: video.Description,
			Thumbnail:   video.Thumbnail,
			PublishedAt: video.PublishedAt,
		})
	}

	if len(ids) > 0 {
		detailed, err := src.ListVideos(ctx, ids)
		if err != nil {
			return nil, err
		}

		stats := make(map[string]int, len(detailed))
		for i, video := range detailed {
			stats[video.ID] = i
		}

		for i := range summaries {
			if j, ok := stats[summaries[i].ID]; ok {
				summaries[i].ViewCount = detailed[j].ViewCount
				summaries[i].LikeCount = detailed[j].LikeCount
				summaries[i].CommentCount = detailed[j].CommentCount
			}
		}
	}

	return &VideosResponse{
		Videos:    summaries,
		ChannelID: channel.ID,
	}, nil
}
