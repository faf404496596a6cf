package dashboard

import (
	"encoding/json"
	"fmt"

	"github.com/echotube/echotube/pkg/hashtags"
)

// VideoSummary is one of the caller's own videos with its counters.
type VideoSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	PublishedAt  string `json:"publishedAt"`
	ViewCount    int64  `json:"viewCount"`
	LikeCount    int64  `json:"likeCount"`
	CommentCount int64  `json:"commentCount"`
}

// VideosResponse is the payload of the videos category.
type VideosResponse struct {
	Videos    []VideoSummary `json:"videos"`
	ChannelID string         `json:"channelId"`
	// IsDemo is only present on demonstration payloads.
	IsDemo bool `json:"is_demo,omitempty"`
}

// CommentEntry is one top-level comment on the caller's videos.
type CommentEntry struct {
	ID                    string `json:"id"`
	VideoID               string `json:"videoId"`
	AuthorDisplayName     string `json:"authorDisplayName"`
	AuthorProfileImageURL string `json:"authorProfileImageUrl"`
	TextDisplay           string `json:"textDisplay"`
	LikeCount             int64  `json:"likeCount"`
	PublishedAt           string `json:"publishedAt"`
	UpdatedAt             string `json:"updatedAt"`
}

// CommentsResponse is the payload of the comments category.
type CommentsResponse struct {
	Comments  []CommentEntry `json:"comments"`
	ChannelID string         `json:"channelId"`
	IsDemo    bool           `json:"is_demo,omitempty"`
}

// HashtagsResponse carries the tiered hashtag recommendations.
type HashtagsResponse struct {
	Hashtags      hashtags.Tiers `json:"hashtags"`
	ChannelTopics []string       `json:"channel_topics"`
	UpdatedAt     string         `json:"updated_at"`
}

// AnalyticsResponse summarizes channel monetization and reach.
type AnalyticsResponse struct {
	Monetized     bool   `json:"monetized"`
	TotalViews    int64  `json:"totalViews"`
	Subscribers   int64  `json:"subscribers"`
	TotalEarnings string `json:"totalEarnings"`
}

// LiveStatsResponse carries current channel statistics.
type LiveStatsResponse struct {
	SubscriberCount  int64  `json:"subscriberCount"`
	ViewCount        int64  `json:"viewCount"`
	VideoCount       int64  `json:"videoCount"`
	ChannelName      string `json:"channelName"`
	ChannelThumbnail string `json:"channelThumbnail"`
}

func marshalPayload(category string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", category, err)
	}

	return data, nil
}
