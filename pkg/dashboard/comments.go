package dashboard

import (
	"context"
	"errors"

	"github.com/echotube/echotube/pkg/cache"
	"github.com/echotube/echotube/pkg/fallback"
	"github.com/echotube/echotube/pkg/session"
	"github.com/echotube/echotube/pkg/youtube"
)

// Comments resolves recent comments on the caller's uploads through the
// degradation policy.
func (s *service) Comments(ctx context.Context, sess *session.Session) (*fallback.Result, error) {
	src := s.sourceFor(ctx, sess)

	return s.policy.Fetch(ctx, cache.CategoryComments, sess.CallerKey(), sess.Raw(),
		func(ctx context.Context) (any, error) {
			return s.fetchComments(ctx, src)
		},
		func() any { return demoCommentsResponse() },
	)
}

// fetchComments performs the live retrieval: channel lookup, uploads
// playlist, then per-video comment threads. A quota failure mid-iteration
// keeps the comments already gathered; other per-video failures are logged
// and skipped.
func (s *service) fetchComments(ctx context.Context, src Source) (*CommentsResponse, error) {
	channel, err := src.MyChannel(ctx, "id", "contentDetails")
	if err != nil {
		return nil, err
	}

	videoIDs, err := src.PlaylistVideoIDs(ctx, channel.UploadsPlaylistID)
	if err != nil {
		return nil, err
	}

	comments := make([]CommentEntry, 0)

	for _, videoID := range videoIDs {
		threads, err := src.CommentThreads(ctx, videoID)
		if err != nil {
			if errors.Is(err, youtube.ErrQuotaExceeded) {
				// Stop the iteration; partial results are still returned
				break
			}

			s.log.WithError(err).WithField("video_id", videoID).Warn("Failed to fetch comments for video")

			continue
		}

		for _, comment := range threads {
			comments = append(comments, CommentEntry{
				ID:                    comment.ID,
				VideoID:               comment.VideoID,
				AuthorDisplayName:     comment.AuthorDisplayName,
				AuthorProfileImageURL: comment.AuthorProfileImageURL,
				TextDisplay:           comment.TextDisplay,
				LikeCount:             comment.LikeCount,
				PublishedAt:           comment.PublishedAt,
				UpdatedAt:             comment.UpdatedAt,
			})
		}
	}

	return &CommentsResponse{
		Comments:  comments,
		ChannelID: channel.ID,
	}, nil
}
