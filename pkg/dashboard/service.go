// Package dashboard orchestrates creator dashboard operations over the
// metrics source, the response cache and the degradation policy.
package dashboard

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/echotube/echotube/pkg/cache"
	"github.com/echotube/echotube/pkg/fallback"
	"github.com/echotube/echotube/pkg/session"
	"github.com/echotube/echotube/pkg/youtube"
)

// Source is the per-session view of the metrics source.
type Source interface {
	MyChannel(ctx context.Context, parts ...string) (*youtube.Channel, error)
	SearchChannelVideos(ctx context.Context, channelID string) ([]youtube.Video, error)
	SearchTopicVideoIDs(ctx context.Context, query string) ([]string, error)
	ListVideos(ctx context.Context, ids []string) ([]youtube.Video, error)
	PlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error)
	CommentThreads(ctx context.Context, videoID string) ([]youtube.Comment, error)
	SetCommentModerationStatus(ctx context.Context, commentID string) error
	InsertReply(ctx context.Context, parentID, text string) (*youtube.Comment, error)
}

// SourceFunc builds a Source for one session.
type SourceFunc func(ctx context.Context, sess *session.Session) Source

// Service defines the dashboard operations exposed over the API.
type Service interface {
	Videos(ctx context.Context, sess *session.Session) (*fallback.Result, error)
	Comments(ctx context.Context, sess *session.Session) (*fallback.Result, error)
	Hashtags(ctx context.Context, sess *session.Session) (*HashtagsResponse, error)
	Analytics(ctx context.Context, sess *session.Session) (*AnalyticsResponse, error)
	LiveStats(ctx context.Context, sess *session.Session) (*LiveStatsResponse, error)
	ReactToComment(ctx context.Context, sess *session.Session, commentID, action string) error
	ReplyToComment(ctx context.Context, sess *session.Session, parentID, text string) (*youtube.Comment, error)

	// Refresh re-runs the live fetch for one cached category and writes
	// through, bypassing the degradation policy. Used by the background
	// refresh worker.
	Refresh(ctx context.Context, sess *session.Session, category string) error
}

type service struct {
	sourceFor SourceFunc
	policy    *fallback.Policy
	store     *cache.Store
	log       logrus.FieldLogger
}

// NewService creates the dashboard service.
func NewService(sourceFor SourceFunc, policy *fallback.Policy, store *cache.Store, log logrus.FieldLogger) Service {
	return &service{
		sourceFor: sourceFor,
		policy:    policy,
		store:     store,
		log:       log.WithField("service", "dashboard"),
	}
}

// Refresh re-fetches one category for the session and overwrites its cache
// entry.
func (s *service) Refresh(ctx context.Context, sess *session.Session, category string) error {
	src := s.sourceFor(ctx, sess)

	var (
		payload any
		err     error
	)

	switch category {
	case cache.CategoryVideos:
		payload, err = s.fetchVideos(ctx, src)
	case cache.CategoryComments:
		payload, err = s.fetchComments(ctx, src)
	default:
		return fmt.Errorf("unknown cache category %q", category)
	}

	if err != nil {
		return err
	}

	data, err := marshalPayload(category, payload)
	if err != nil {
		return err
	}

	return s.store.Set(ctx, category, sess.CallerKey(), data)
}
