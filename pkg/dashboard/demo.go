package dashboard

import "time"

// demoChannelID marks demonstration payloads.
const demoChannelID = "demo_channel"

// demoVideosResponse is the fixed dataset served when the source quota is
// exhausted and no cached payload exists. It is never written to the cache.
func demoVideosResponse() *VideosResponse {
	now := time.Now()

	return &VideosResponse{
		ChannelID: demoChannelID,
		IsDemo:    true,
		Videos: []VideoSummary{
			{
				ID:           "demo1",
				Title:        "Welcome to EchoTube Dashboard",
				Description:  "This is a demo video while the YouTube API quota is exceeded. The real data will be available once the quota resets.",
				Thumbnail:    "https://i.imgur.com/7K2AGbm.jpg",
				PublishedAt:  now.AddDate(0, 0, -1).Format(time.RFC3339),
				ViewCount:    1200,
				LikeCount:    150,
				CommentCount: 25,
			},
			{
				ID:           "demo2",
				Title:        "Understanding YouTube API Quotas",
				Description:  "Learn about YouTube API quotas and how to manage them effectively.",
				Thumbnail:    "https://i.imgur.com/QzWqrNG.jpg",
				PublishedAt:  now.AddDate(0, 0, -2).Format(time.RFC3339),
				ViewCount:    800,
				LikeCount:    95,
				CommentCount: 15,
			},
		},
	}
}

func demoCommentsResponse() *CommentsResponse {
	now := time.Now()

	return &CommentsResponse{
		ChannelID: demoChannelID,
		IsDemo:    true,
		Comments: []CommentEntry{
			{
				ID:                    "comment1",
				VideoID:               "demo1",
				AuthorDisplayName:     "Demo User",
				AuthorProfileImageURL: "https://i.imgur.com/7K2AGbm.jpg",
				TextDisplay:           "This is a demo comment. Real comments will be shown once the YouTube API quota resets.",
				LikeCount:             5,
				PublishedAt:           now.Add(-2 * time.Hour).Format(time.RFC3339),
				UpdatedAt:             now.Add(-2 * time.Hour).Format(time.RFC3339),
			},
			{
				ID:                    "comment2",
				VideoID:               "demo2",
				AuthorDisplayName:     "API Quota Info",
				AuthorProfileImageURL: "https://i.imgur.com/QzWqrNG.jpg",
				TextDisplay:           "YouTube API quotas typically reset at midnight Pacific Time. Your dashboard will automatically update with real data once the quota resets.",
				LikeCount:             3,
				PublishedAt:           now.Add(-4 * time.Hour).Format(time.RFC3339),
				UpdatedAt:             now.Add(-4 * time.Hour).Format(time.RFC3339),
			},
		},
	}
}
