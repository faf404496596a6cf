package youtube

import (
	"bytes"
	"strconv"
)

// Channel is the caller's channel as far as the dashboard needs it.
type Channel struct {
	ID                string
	UploadsPlaylistID string
	TopicCategories   []string
	Keywords          string
	Title             string
	ThumbnailURL      string
	MadeForKids       bool
	ViewCount         int64
	SubscriberCount   int64
	VideoCount        int64
}

// Video is one platform video record with its engagement counters.
type Video struct {
	ID           string
	Title        string
	Description  string
	Thumbnail    string
	PublishedAt  string
	Tags         []string
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// Comment is one top-level comment on a video.
type Comment struct {
	ID                    string
	VideoID               string
	AuthorDisplayName     string
	AuthorProfileImageURL string
	TextDisplay           string
	LikeCount             int64
	PublishedAt           string
	UpdatedAt             string
}

// flexInt64 parses counters the API serializes either as numbers or as
// stringified integers; missing or empty values decode to 0.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}

	*f = flexInt64(n)

	return nil
}

// Wire shapes for the subset of the Data API the dashboard touches.

type thumbnailSet struct {
	Default struct {
		URL string `json:"url"`
	} `json:"default"`
	High struct {
		URL string `json:"url"`
	} `json:"high"`
}

type channelListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title      string       `json:"title"`
			Thumbnails thumbnailSet `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
		TopicDetails struct {
			TopicCategories []string `json:"topicCategories"`
		} `json:"topicDetails"`
		BrandingSettings struct {
			Channel struct {
				Keywords string `json:"keywords"`
			} `json:"channel"`
		} `json:"brandingSettings"`
		Statistics struct {
			ViewCount       flexInt64 `json:"viewCount"`
			SubscriberCount flexInt64 `json:"subscriberCount"`
			VideoCount      flexInt64 `json:"videoCount"`
		} `json:"statistics"`
		Status struct {
			MadeForKids bool `json:"madeForKids"`
		} `json:"status"`
	} `json:"items"`
}

type searchListResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string       `json:"title"`
			Description string       `json:"description"`
			PublishedAt string       `json:"publishedAt"`
			Thumbnails  thumbnailSet `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string       `json:"title"`
			Description string       `json:"description"`
			PublishedAt string       `json:"publishedAt"`
			Tags        []string     `json:"tags"`
			Thumbnails  thumbnailSet `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    flexInt64 `json:"viewCount"`
			LikeCount    flexInt64 `json:"likeCount"`
			CommentCount flexInt64 `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		Snippet struct {
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

type commentThreadsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			TopLevelComment struct {
				Snippet commentSnippet `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

type commentSnippet struct {
	AuthorDisplayName     string    `json:"authorDisplayName"`
	AuthorProfileImageURL string    `json:"authorProfileImageUrl"`
	TextDisplay           string    `json:"textDisplay"`
	TextOriginal          string    `json:"textOriginal"`
	LikeCount             flexInt64 `json:"likeCount"`
	PublishedAt           string    `json:"publishedAt"`
	UpdatedAt             string    `json:"updatedAt"`
}

type commentResource struct {
	ID      string         `json:"id"`
	Snippet commentSnippet `json:"snippet"`
}
