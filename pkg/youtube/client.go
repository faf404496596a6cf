package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/echotube/echotube/pkg/observability"
	"github.com/echotube/echotube/pkg/session"
)

// googleTokenURL is the token refresh endpoint for platform credentials.
const googleTokenURL = "https://oauth2.googleapis.com/token" //nolint:gosec // endpoint, not a credential

// ClientFactory builds per-session source clients. Each client carries a
// refresh-capable token source for the session's credentials.
type ClientFactory struct {
	config *Config
	oauth  *oauth2.Config
	log    logrus.FieldLogger
}

// NewClientFactory creates a source client factory.
func NewClientFactory(cfg *Config, secrets *OAuthSecrets, log logrus.FieldLogger) (*ClientFactory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid youtube configuration: %w", err)
	}
	if secrets == nil || secrets.ClientID == "" || secrets.ClientSecret == "" {
		return nil, ErrOAuthUnset
	}

	return &ClientFactory{
		config: cfg,
		oauth: &oauth2.Config{
			ClientID:     secrets.ClientID,
			ClientSecret: secrets.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: googleTokenURL},
		},
		log: log.WithField("component", "youtube"),
	}, nil
}

// ForSession returns a client authenticated as the given session.
func (f *ClientFactory) ForSession(ctx context.Context, sess *session.Session) *Client {
	httpClient := oauth2.NewClient(ctx, f.oauth.TokenSource(ctx, sess.Token))
	httpClient.Timeout = f.config.Timeout

	return &Client{
		httpClient: httpClient,
		config:     f.config,
		log:        f.log,
	}
}

// Client issues Data API calls on behalf of one session.
type Client struct {
	httpClient *http.Client
	config     *Config
	log        logrus.FieldLogger
}

// NewClient creates a client around an explicit HTTP client. Used by tests;
// production clients come from the factory.
func NewClient(httpClient *http.Client, cfg *Config, log logrus.FieldLogger) *Client {
	return &Client{
		httpClient: httpClient,
		config:     cfg,
		log:        log.WithField("component", "youtube"),
	}
}

// MyChannel fetches the caller's channel with the requested parts.
func (c *Client) MyChannel(ctx context.Context, parts ...string) (*Channel, error) {
	params := url.Values{}
	params.Set("part", strings.Join(parts, ","))
	params.Set("mine", "true")

	var resp channelListResponse
	if err := c.getJSON(ctx, "channels", "/channels", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Items) == 0 {
		return nil, ErrNoChannel
	}

	item := resp.Items[0]

	return &Channel{
		ID:                item.ID,
		UploadsPlaylistID: item.ContentDetails.RelatedPlaylists.Uploads,
		TopicCategories:   item.TopicDetails.TopicCategories,
		Keywords:          item.BrandingSettings.Channel.Keywords,
		Title:             item.Snippet.Title,
		ThumbnailURL:      item.Snippet.Thumbnails.Default.URL,
		MadeForKids:       item.Status.MadeForKids,
		ViewCount:         int64(item.Statistics.ViewCount),
		SubscriberCount:   int64(item.Statistics.SubscriberCount),
		VideoCount:        int64(item.Statistics.VideoCount),
	}, nil
}

// SearchChannelVideos returns the channel's most recent videos, newest first.
// Statistics are not populated; use ListVideos to fill them in bulk.
func (c *Client) SearchChannelVideos(ctx context.Context, channelID string) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("maxResults", strconv.Itoa(c.config.RecentVideoResults))

	var resp searchListResponse
	if err := c.getJSON(ctx, "search", "/search", params, &resp); err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, Video{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Thumbnail:   item.Snippet.Thumbnails.High.URL,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}

	return videos, nil
}

// SearchTopicVideoIDs runs a niche search for one topic or keyword, ordered
// by view count and bounded by the configured category and recency window.
func (c *Client) SearchTopicVideoIDs(ctx context.Context, query string) ([]string, error) {
	publishedAfter := time.Now().UTC().AddDate(0, 0, -c.config.SearchWindowDays)

	params := url.Values{}
	params.Set("part", "id")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("videoCategoryId", c.config.VideoCategoryID)
	params.Set("order", "viewCount")
	params.Set("publishedAfter", publishedAfter.Format(time.RFC3339))
	params.Set("maxResults", strconv.Itoa(c.config.NicheSearchResults))

	var resp searchListResponse
	if err := c.getJSON(ctx, "search", "/search", params, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}

	return ids, nil
}

// ListVideos fetches snippet and statistics for the given video IDs in one
// call.
func (c *Client) ListVideos(ctx context.Context, ids []string) ([]Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", strings.Join(ids, ","))

	var resp videoListResponse
	if err := c.getJSON(ctx, "videos", "/videos", params, &resp); err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, Video{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			Thumbnail:    item.Snippet.Thumbnails.High.URL,
			PublishedAt:  item.Snippet.PublishedAt,
			Tags:         item.Snippet.Tags,
			ViewCount:    int64(item.Statistics.ViewCount),
			LikeCount:    int64(item.Statistics.LikeCount),
			CommentCount: int64(item.Statistics.CommentCount),
		})
	}

	return videos, nil
}

// PlaylistVideoIDs returns the first page of video IDs from a playlist.
func (c *Client) PlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(c.config.UploadsPlaylistResults))

	var resp playlistItemsResponse
	if err := c.getJSON(ctx, "playlistItems", "/playlistItems", params, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		ids = append(ids, item.Snippet.ResourceID.VideoID)
	}

	return ids, nil
}

// CommentThreads returns top-level comments for one video.
func (c *Client) CommentThreads(ctx context.Context, videoID string) ([]Comment, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("maxResults", strconv.Itoa(c.config.CommentsPerVideo))

	var resp commentThreadsResponse
	if err := c.getJSON(ctx, "commentThreads", "/commentThreads", params, &resp); err != nil {
		return nil, err
	}

	comments := make([]Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		snippet := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, Comment{
			ID:                    item.ID,
			VideoID:               videoID,
			AuthorDisplayName:     snippet.AuthorDisplayName,
			AuthorProfileImageURL: snippet.AuthorProfileImageURL,
			TextDisplay:           snippet.TextDisplay,
			LikeCount:             int64(snippet.LikeCount),
			PublishedAt:           snippet.PublishedAt,
			UpdatedAt:             snippet.UpdatedAt,
		})
	}

	return comments, nil
}

// SetCommentModerationStatus publishes a comment. All reaction actions map to
// this one platform operation.
func (c *Client) SetCommentModerationStatus(ctx context.Context, commentID string) error {
	params := url.Values{}
	params.Set("id", commentID)
	params.Set("moderationStatus", "published")
	params.Set("banAuthor", "false")

	return c.postJSON(ctx, "comments.setModerationStatus", "/comments/setModerationStatus", params, nil, nil)
}

// InsertReply posts a reply under a parent comment.
func (c *Client) InsertReply(ctx context.Context, parentID, text string) (*Comment, error) {
	params := url.Values{}
	params.Set("part", "snippet")

	body := map[string]any{
		"snippet": map[string]any{
			"parentId":     parentID,
			"textOriginal": text,
		},
	}

	var resp commentResource
	if err := c.postJSON(ctx, "comments.insert", "/comments", params, body, &resp); err != nil {
		return nil, err
	}

	return &Comment{
		ID:                    resp.ID,
		AuthorDisplayName:     resp.Snippet.AuthorDisplayName,
		AuthorProfileImageURL: resp.Snippet.AuthorProfileImageURL,
		TextDisplay:           resp.Snippet.TextDisplay,
		LikeCount:             int64(resp.Snippet.LikeCount),
		PublishedAt:           resp.Snippet.PublishedAt,
		UpdatedAt:             resp.Snippet.UpdatedAt,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, operation, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, operation, path, params, nil, out)
}

func (c *Client) postJSON(ctx context.Context, operation, path string, params url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, operation, path, params, body, out)
}

func (c *Client) do(ctx context.Context, method, operation, path string, params url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path+"?"+params.Encode(), reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordSourceCall(operation, "error", time.Since(started))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.RecordSourceCall(operation, "error", time.Since(started))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		classified := classifyError(resp.StatusCode, data)
		status := "error"
		if errors.Is(classified, ErrQuotaExceeded) {
			status = "quota"
		}
		observability.RecordSourceCall(operation, status, time.Since(started))

		c.log.WithError(classified).WithFields(logrus.Fields{
			"operation": operation,
			"status":    resp.StatusCode,
		}).Warn("Source call failed")

		return classified
	}

	observability.RecordSourceCall(operation, "success", time.Since(started))

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	return nil
}
