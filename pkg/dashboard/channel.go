package dashboard

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/echotube/echotube/pkg/session"
	"github.com/echotube/echotube/pkg/youtube"
)

// Define static errors
var (
	ErrUnknownAction = errors.New("unknown comment action")
)

// commentActions are the supported reaction labels. They all map to the same
// platform moderation-status call.
var commentActions = map[string]struct{}{
	"like":    {},
	"unlike":  {},
	"heart":   {},
	"unheart": {},
}

// Analytics summarizes channel monetization and reach. A missing channel
// yields zero values rather than an error.
func (s *service) Analytics(ctx context.Context, sess *session.Session) (*AnalyticsResponse, error) {
	channel, err := s.sourceFor(ctx, sess).MyChannel(ctx, "status", "statistics")
	if err != nil {
		if errors.Is(err, youtube.ErrNoChannel) {
			return &AnalyticsResponse{TotalEarnings: "0.00"}, nil
		}

		return nil, err
	}

	return &AnalyticsResponse{
		Monetized:     channel.MadeForKids,
		TotalViews:    channel.ViewCount,
		Subscribers:   channel.SubscriberCount,
		TotalEarnings: "0.00", // Earnings require the partner API
	}, nil
}

// LiveStats returns current channel statistics.
func (s *service) LiveStats(ctx context.Context, sess *session.Session) (*LiveStatsResponse, error) {
	channel, err := s.sourceFor(ctx, sess).MyChannel(ctx, "statistics", "snippet")
	if err != nil {
		return nil, err
	}

	return &LiveStatsResponse{
		SubscriberCount:  channel.SubscriberCount,
		ViewCount:        channel.ViewCount,
		VideoCount:       channel.VideoCount,
		ChannelName:      channel.Title,
		ChannelThumbnail: channel.ThumbnailURL,
	}, nil
}

// ReactToComment applies a reaction to a comment.
func (s *service) ReactToComment(ctx context.Context, sess *session.Session, commentID, action string) error {
	if _, ok := commentActions[action]; !ok {
		return ErrUnknownAction
	}

	if err := s.sourceFor(ctx, sess).SetCommentModerationStatus(ctx, commentID); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"comment_id": commentID,
		"action":     action,
	}).Debug("Applied comment reaction")

	return nil
}

// ReplyToComment posts a reply under a parent comment.
func (s *service) ReplyToComment(ctx context.Context, sess *session.Session, parentID, text string) (*youtube.Comment, error) {
	return s.sourceFor(ctx, sess).InsertReply(ctx, parentID, text)
}
