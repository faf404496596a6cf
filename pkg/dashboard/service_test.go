package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/echotube/echotube/internal/testutil"
	"github.com/echotube/echotube/pkg/cache"
	"github.com/echotube/echotube/pkg/fallback"
	"github.com/echotube/echotube/pkg/session"
	"github.com/echotube/echotube/pkg/youtube"
)

// fakeSource implements Source with overridable behavior per test.
type fakeSource struct {
	myChannel         func(ctx context.Context, parts ...string) (*youtube.Channel, error)
	searchChannel     func(ctx context.Context, channelID string) ([]youtube.Video, error)
	searchTopic       func(ctx context.Context, query string) ([]string, error)
	listVideos        func(ctx context.Context, ids []string) ([]youtube.Video, error)
	playlistVideoIDs  func(ctx context.Context, playlistID string) ([]string, error)
	commentThreads    func(ctx context.Context, videoID string) ([]youtube.Comment, error)
	setModeration     func(ctx context.Context, commentID string) error
	insertReply       func(ctx context.Context, parentID, text string) (*youtube.Comment, error)
}

func (f *fakeSource) MyChannel(ctx context.Context, parts ...string) (*youtube.Channel, error) {
	return f.myChannel(ctx, parts...)
}

func (f *fakeSource) SearchChannelVideos(ctx context.Context, channelID string) ([]youtube.Video, error) {
	return f.searchChannel(ctx, channelID)
}

func (f *fakeSource) SearchTopicVideoIDs(ctx context.Context, query string) ([]string, error) {
	return f.searchTopic(ctx, query)
}

func (f *fakeSource) ListVideos(ctx context.Context, ids []string) ([]youtube.Video, error) {
	return f.listVideos(ctx, ids)
}

func (f *fakeSource) PlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	return f.playlistVideoIDs(ctx, playlistID)
}

func (f *fakeSource) CommentThreads(ctx context.Context, videoID string) ([]youtube.Comment, error) {
	return f.commentThreads(ctx, videoID)
}

func (f *fakeSource) SetCommentModerationStatus(ctx context.Context, commentID string) error {
	return f.setModeration(ctx, commentID)
}

func (f *fakeSource) InsertReply(ctx context.Context, parentID, text string) (*youtube.Comment, error) {
	return f.insertReply(ctx, parentID, text)
}

func newTestService(t *testing.T, src Source) (Service, *cache.Store) {
	t.Helper()

	_, client := testutil.NewMiniredisClient(t)

	store, err := cache.NewStore(client, "echotube", &cache.Config{TTL: 30 * time.Minute})
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	policy := fallback.NewPolicy(store, nil, log)

	svc := NewService(func(context.Context, *session.Session) Source { return src }, policy, store, log)

	return svc, store
}

func testSession(t *testing.T) *session.Session {
	t.Helper()

	m, err := session.NewManager(&session.Secrets{SigningKey: "test-key"}, time.Hour)
	require.NoError(t, err)

	raw, err := m.Issue(&oauth2.Token{AccessToken: "access"})
	require.NoError(t, err)

	sess, err := m.Parse(raw)
	require.NoError(t, err)

	return sess
}

func TestService_Videos_JoinsStatistics(t *testing.T) {
	src := &fakeSource{
		myChannel: func(context.Context, ...string) (*youtube.Channel, error) {
			return &youtube.Channel{ID: "chan-1", UploadsPlaylistID: "up-1"}, nil
		},
		searchChannel: func(context.Context, string) ([]youtube.Video, error) {
			return []youtube.Video{
				{ID: "v1", Title: "First"},
				{ID: "v2", Title: "Second"},
			}, nil
		},
		listVideos: func(_ context.Context, ids []string) ([]youtube.Video, error) {
			assert.Equal(t, []string{"v1", "v2"}, ids)
			return []youtube.Video{
				{ID: "v1", ViewCount: 100, LikeCount: 10, CommentCount: 1},
				{ID: "v2", ViewCount: 50, LikeCount: 5, CommentCount: 2},
			}, nil
		},
	}

	svc, store := newTestService(t, src)
	sess := testSession(t)

	result, err := svc.Videos(context.Background(), sess)
	require.NoError(t, err)
	assert.False(t, result.Demo)

	var resp VideosResponse
	require.NoError(t, json.Unmarshal(result.Payload, &resp))
	assert.Equal(t, "chan-1", resp.ChannelID)
	require.Len(t, resp.Videos, 2)
	assert.Equal(t, int64(100), resp.Videos[0].ViewCount)
	assert.Equal(t, int64(5), resp.Videos[1].LikeCount)
	assert.False(t, resp.IsDemo)

	// Write-through happened
	_, ok, err := store.Get(context.Background(), cache.CategoryVideos, sess.CallerKey())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_Videos_QuotaWithoutCacheServesDemo(t *testing.T) {
	src := &fakeSource{
		myChannel: func(context.Context, ...string) (*youtube.Channel, error) {
			return nil, fmt.Errorf("channels.list: %w", youtube.ErrQuotaExceeded)
		},
	}

	svc, store := newTestService(t, src)
	sess := testSession(t)

	result, err := svc.Videos(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, result.Demo)

	var resp VideosResponse
	require.NoError(t, json.Unmarshal(result.Payload, &resp))
	assert.True(t, resp.IsDemo)
	assert.Equal(t, demoChannelID, resp.ChannelID)
	assert.NotEmpty(t, resp.Videos)

	// Demo payloads are never cached
	_, ok, err := store.GetStale(context.Background(), cache.CategoryVideos, sess.CallerKey())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_Videos_NonQuotaErrorPropagates(t *testing.T) {
	src := &fakeSource{
		myChannel: func(context.Context, ...string) (*youtube.Channel, error) {
			return nil, youtube.ErrNoChannel
		},
	}

	svc, _ := newTestService(t, src)

	_, err := svc.Videos(context.Background(), testSession(t))
	assert.ErrorIs(t, err, youtube.ErrNoChannel)
}

func TestService_Comments_QuotaMidIterationKeepsPartial(t *testing.T) {
	fetched := 0
	src := &fakeSource{
		myChannel: func(context.Context, ...string) (*youtube.Channel, error) {
			return &youtube.Channel{ID: "chan-1", UploadsPlaylistID: "up-1"}, nil
		},
		playlistVideoIDs: func(context.Context, string) ([]string, error) {
			return []string{"v1", "v2", "v3", "v4", "v5"}, nil
		},
		commentThreads: func(_ context.Context, videoID string) ([]youtube.Comment, error) {
			if fetched >= 2 {
				return nil, youtube.ErrQuotaExceeded
			}
			fetched++
			return []youtube.Comment{{ID: "c-" + videoID, VideoID: videoID}}, nil
		},
	}

	svc, _ := newTestService(t, src)

	result, err := svc.Comments(context.Background(), testSession(t))
	require.NoError(t, err)
	assert.False(t, result.Demo)

	var resp CommentsResponse
	require.NoError(t, json.Unmarshal(result.Payload, &resp))
	// Two videos succeeded before quota ran out
	require.Len(t, resp.Comments, 2)
	assert.Equal(t, "c-v1", resp.Comments[0].ID)
	assert.Equal(t, "c-v2", resp.Comments[1].ID)
}

func TestService_Hashtags_PartialTopicResultsAreScored(t *testing.T) {
	searches := 0
	src := &fakeSource{
		myChannel: func(context.Context, ...string) (*youtube.Channel, error) {
			return &youtube.Channel{
				ID:              "chan-1",
				TopicCategories: []string{"https://en.wikipedia.org/wiki/Music", "https://en.wikipedia.org/wiki/Jazz"},
				Keywords:        "lofi, chill, beats, extra",
			}, nil
		},
		searchTopic: func(_ context.Context, query string) ([]string, error) {
			searches++
			if searches > 2 {
				return nil, youtube.ErrQuotaExceeded
			}
			return []string{query + "-1", query + "-2"}, nil
		},
		listVideos: func(_ context.Context, ids []string) ([]youtube.Video, error) {
			videos := make([]youtube.Video, 0, len(ids))
			for _, id := range ids {
				videos = append(videos, youtube.Video{
					ID:          id,
					Title:       "video " + id,
					Description: "#lofi #chill",
					ViewCount:   100,
					LikeCount:   10,
				})
			}
			return videos, nil
		},
	}

	svc, _ := newTestService(t, src)

	resp, err := svc.Hashtags(context.Background(), testSession(t))
	require.NoError(t, err)

	// 2 of 5 queries succeeded before quota; their 4 videos still scored
	require.NotEmpty(t, resp.Hashtags.Trending)
	tags := make([]string, 0)
	for _, score := range resp.Hashtags.Trending {
		tags = append(tags, score.Hashtag)
		assert.Equal(t, 4, score.UsageCount)
	}
	assert.ElementsMatch(t, []string{"lofi", "chill"}, tags)

	assert.Equal(t, []string{"Music", "Jazz"}, resp.ChannelTopics)
	assert.NotEmpty(t, resp.UpdatedAt)
}

func TestService_Hashtags_EmptyNicheYieldsEmptyTiers(t *testing.T) {
	src := &fakeSource{
		myChannel: func(context.Context, ...string) (*youtube.Channel, error) {
			return &youtube.Channel{ID: "chan-1"}, nil
		},
	}

	svc, _ := newTestService(t, src)

	resp, err := svc.Hashtags(context.Background(), testSession(t))
	require.NoError(t, err)
	assert.Empty(t, resp.Hashtags.Trending)
	assert.Empty(t, resp.Hashtags.Niche)
	assert.Empty(t, resp.ChannelTopics)
}

func TestNicheQueries(t *testing.T) {
	channel := &youtube.Channel{
		TopicCategories: []string{"https://en.wikipedia.org/wiki/Electronic_music"},
		Keywords:        " lofi , , Chill, beats, ignored",
	}

	queries, topics := nicheQueries(channel)

	assert.Equal(t, []string{"Electronic_music"}, topics)
	// Topics first, then at most three cleaned keywords
	assert.Equal(t, []string{"electronic_music", "lofi", "chill", "beats"}, queries)
}

func TestService_ReactToComment(t *testing.T) {
	var moderated []string
	src := &fakeSource{
		setModeration: func(_ context.Context, commentID string) error {
			moderated = append(moderated, commentID)
			return nil
		},
	}

	svc, _ := newTestService(t, src)
	sess := testSession(t)
	ctx := context.Background()

	for _, action := range []string{"like", "unlike", "heart", "unheart"} {
		require.NoError(t, svc.ReactToComment(ctx, sess, "c1", action))
	}
	assert.Len(t, moderated, 4)

	err := svc.ReactToComment(ctx, sess, "c1", "boost")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestService_Analytics_MissingChannelYieldsZeroes(t *testing.T) {
	src := &fakeSource{
		myChannel: func(context.Context, ...string) (*youtube.Channel, error) {
			return nil, youtube.ErrNoChannel
		},
	}

	svc, _ := newTestService(t, src)

	resp, err := svc.Analytics(context.Background(), testSession(t))
	require.NoError(t, err)
	assert.False(t, resp.Monetized)
	assert.Zero(t, resp.TotalViews)
	assert.Equal(t, "0.00", resp.TotalEarnings)
}

func TestService_Refresh_WritesThrough(t *testing.T) {
	src := &fakeSource{
		myChannel: func(context.Context, ...string) (*youtube.Channel, error) {
			return &youtube.Channel{ID: "chan-1", UploadsPlaylistID: "up-1"}, nil
		},
		searchChannel: func(context.Context, string) ([]youtube.Video, error) {
			return []youtube.Video{{ID: "v1", Title: "First"}}, nil
		},
		listVideos: func(_ context.Context, ids []string) ([]youtube.Video, error) {
			return []youtube.Video{{ID: "v1", ViewCount: 7}}, nil
		},
	}

	svc, store := newTestService(t, src)
	sess := testSession(t)
	ctx := context.Background()

	require.NoError(t, svc.Refresh(ctx, sess, cache.CategoryVideos))

	cached, ok, err := store.Get(ctx, cache.CategoryVideos, sess.CallerKey())
	require.NoError(t, err)
	require.True(t, ok)

	var resp VideosResponse
	require.NoError(t, json.Unmarshal(cached, &resp))
	require.Len(t, resp.Videos, 1)
	assert.Equal(t, int64(7), resp.Videos[0].ViewCount)

	assert.Error(t, svc.Refresh(ctx, sess, "bogus"))
}
