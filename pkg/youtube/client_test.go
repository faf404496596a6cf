package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/creasty/defaults"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &Config{}
	require.NoError(t, defaults.Set(cfg))
	cfg.BaseURL = srv.URL

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return NewClient(srv.Client(), cfg, log)
}

func TestClient_MyChannel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("mine"))

		_, _ = w.Write([]byte(`{
			"items": [{
				"id": "chan-1",
				"snippet": {"title": "My Channel", "thumbnails": {"default": {"url": "http://thumb"}}},
				"contentDetails": {"relatedPlaylists": {"uploads": "uploads-1"}},
				"topicDetails": {"topicCategories": ["https://en.wikipedia.org/wiki/Music"]},
				"brandingSettings": {"channel": {"keywords": "lofi,chill"}},
				"statistics": {"viewCount": "12345", "subscriberCount": "678", "videoCount": "9"}
			}]
		}`))
	})

	ch, err := client.MyChannel(context.Background(), "id", "contentDetails")
	require.NoError(t, err)
	assert.Equal(t, "chan-1", ch.ID)
	assert.Equal(t, "uploads-1", ch.UploadsPlaylistID)
	assert.Equal(t, []string{"https://en.wikipedia.org/wiki/Music"}, ch.TopicCategories)
	assert.Equal(t, "lofi,chill", ch.Keywords)
	// Stringified counters are parsed to integers
	assert.Equal(t, int64(12345), ch.ViewCount)
	assert.Equal(t, int64(678), ch.SubscriberCount)
}

func TestClient_MyChannel_NoChannel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": []}`))
	})

	_, err := client.MyChannel(context.Background(), "id")
	assert.ErrorIs(t, err, ErrNoChannel)
}

func TestClient_ListVideos_MissingStatisticsParseToZero(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "v1,v2", r.URL.Query().Get("id"))

		_, _ = w.Write([]byte(`{
			"items": [
				{
					"id": "v1",
					"snippet": {"title": "One", "tags": ["#lofi", "music"]},
					"statistics": {"viewCount": "100", "likeCount": "10", "commentCount": "3"}
				},
				{
					"id": "v2",
					"snippet": {"title": "Two"},
					"statistics": {"viewCount": 50}
				}
			]
		}`))
	})

	videos, err := client.ListVideos(context.Background(), []string{"v1", "v2"})
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, int64(100), videos[0].ViewCount)
	assert.Equal(t, []string{"#lofi", "music"}, videos[0].Tags)

	// Numeric counter accepted, missing counters default to zero
	assert.Equal(t, int64(50), videos[1].ViewCount)
	assert.Equal(t, int64(0), videos[1].LikeCount)
	assert.Equal(t, int64(0), videos[1].CommentCount)
}

func TestClient_ListVideos_EmptyIDs(t *testing.T) {
	client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected for empty id list")
	})

	videos, err := client.ListVideos(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:   "quota exceeded reason",
			status: http.StatusForbidden,
			body: `{"error": {"code": 403, "message": "The request cannot be completed",
				"errors": [{"domain": "youtube.quota", "reason": "quotaExceeded"}]}}`,
			wantErr: ErrQuotaExceeded,
		},
		{
			name:   "rate limit reason",
			status: http.StatusForbidden,
			body: `{"error": {"code": 403, "message": "Too many requests",
				"errors": [{"domain": "usageLimits", "reason": "rateLimitExceeded"}]}}`,
			wantErr: ErrQuotaExceeded,
		},
		{
			name:   "forbidden without quota reason",
			status: http.StatusForbidden,
			body: `{"error": {"code": 403, "message": "Access forbidden",
				"errors": [{"domain": "global", "reason": "forbidden"}]}}`,
			wantErr: ErrUnavailable,
		},
		{
			name:   "message mentioning quota is not enough",
			status: http.StatusBadRequest,
			body: `{"error": {"code": 400, "message": "quota parameter malformed",
				"errors": [{"domain": "global", "reason": "badRequest"}]}}`,
			wantErr: ErrUnavailable,
		},
		{
			name:    "server error without envelope",
			status:  http.StatusBadGateway,
			body:    `upstream exploded`,
			wantErr: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.MyChannel(context.Background(), "id")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_SearchTopicVideoIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "lofi", q.Get("q"))
		assert.Equal(t, "10", q.Get("videoCategoryId"))
		assert.Equal(t, "viewCount", q.Get("order"))
		assert.NotEmpty(t, q.Get("publishedAfter"))

		_, _ = w.Write([]byte(`{"items": [{"id": {"videoId": "a"}}, {"id": {"videoId": "b"}}]}`))
	})

	ids, err := client.SearchTopicVideoIDs(context.Background(), "lofi")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestClient_CommentThreads(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commentThreads", r.URL.Path)
		assert.Equal(t, "vid-1", r.URL.Query().Get("videoId"))

		_, _ = w.Write([]byte(`{
			"items": [{
				"id": "c1",
				"snippet": {"topLevelComment": {"snippet": {
					"authorDisplayName": "Alice",
					"textDisplay": "nice",
					"likeCount": 4,
					"publishedAt": "2026-01-01T00:00:00Z",
					"updatedAt": "2026-01-01T00:00:00Z"
				}}}
			}]
		}`))
	})

	comments, err := client.CommentThreads(context.Background(), "vid-1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "vid-1", comments[0].VideoID)
	assert.Equal(t, int64(4), comments[0].LikeCount)
}
