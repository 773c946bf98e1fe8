package videoservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lazygardenertx/gardenlog/internal/common"
)

const channelResponse = `{
	"items": [
		{"contentDetails": {"relatedPlaylists": {"uploads": "UU123"}}}
	]
}`

const playlistResponse = `{
	"items": [
		{
			"snippet": {
				"title": "Pruning Roses in Spring",
				"description": "A walkthrough of spring pruning.",
				"publishedAt": "2025-03-01T15:04:05Z",
				"thumbnails": {
					"maxres": {"url": "https://img.example.com/maxres1.jpg"},
					"high": {"url": "https://img.example.com/high1.jpg"}
				},
				"resourceId": {"videoId": "abc123"}
			}
		},
		{
			"snippet": {
				"title": "Tomato Transplant Day",
				"description": "Moving seedlings outside.",
				"publishedAt": "2025-02-20T10:00:00Z",
				"thumbnails": {
					"high": {"url": "https://img.example.com/high2.jpg"}
				},
				"resourceId": {"videoId": "def456"}
			}
		},
		{
			"snippet": {
				"title": "Garden Tour",
				"description": "",
				"publishedAt": "2025-02-01T08:30:00Z",
				"thumbnails": {},
				"resourceId": {"videoId": "ghi789"}
			}
		},
		{
			"snippet": {
				"title": "Soil Prep",
				"description": "",
				"publishedAt": "2025-01-15T12:00:00Z",
				"thumbnails": {
					"default": {"url": "https://img.example.com/default4.jpg"}
				},
				"resourceId": {"videoId": "jkl012"}
			}
		}
	]
}`

func setupTestEnvironment(t *testing.T, handler http.HandlerFunc) (*VideoService, *common.Cache) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := NewVideoService(cache, logger, "test-key", "UC123")
	s.baseURL = server.URL

	return s, cache
}

func fakeYouTube(t *testing.T, calls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			*calls++
		}

		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		switch r.URL.Path {
		case "/channels":
			assert.Equal(t, "contentDetails", r.URL.Query().Get("part"))
			assert.Equal(t, "UC123", r.URL.Query().Get("id"))
			fmt.Fprint(w, channelResponse)
		case "/playlistItems":
			assert.Equal(t, "snippet", r.URL.Query().Get("part"))
			assert.Equal(t, "UU123", r.URL.Query().Get("playlistId"))
			assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
			fmt.Fprint(w, playlistResponse)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}
}

func TestGetVideos(t *testing.T) {
	s, _ := setupTestEnvironment(t, fakeYouTube(t, nil))

	videos, err := s.GetVideos(context.Background())
	assert.NoError(t, err)
	assert.Len(t, videos, 4)

	assert.Equal(t, Video{
		ID:          "1",
		Title:       "Pruning Roses in Spring",
		Description: "A walkthrough of spring pruning.",
		PublishedAt: "2025-03-01",
		Thumbnail:   "https://img.example.com/maxres1.jpg",
		YouTubeID:   "abc123",
	}, videos[0])

	// falls back down the thumbnail sizes
	assert.Equal(t, "https://img.example.com/high2.jpg", videos[1].Thumbnail)
	assert.Equal(t, "", videos[2].Thumbnail)
	assert.Equal(t, "https://img.example.com/default4.jpg", videos[3].Thumbnail)

	assert.Equal(t, []string{"1", "2", "3", "4"}, []string{videos[0].ID, videos[1].ID, videos[2].ID, videos[3].ID})
}

func TestGetVideosCached(t *testing.T) {
	var calls int
	s, _ := setupTestEnvironment(t, fakeYouTube(t, &calls))

	ctx := context.Background()

	_, err := s.GetVideos(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	// second listing is served from the cache
	_, err = s.GetVideos(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetVideosUnconfigured(t *testing.T) {
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := NewVideoService(cache, logger, "", "")

	videos, err := s.GetVideos(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, videos)
}

func TestGetVideosUpstreamError(t *testing.T) {
	s, _ := setupTestEnvironment(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := s.GetVideos(context.Background())
	assert.EqualError(t, err, "youtube api returned status 403")
}

func TestGetVideosUnknownChannel(t *testing.T) {
	s, _ := setupTestEnvironment(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	})

	_, err := s.GetVideos(context.Background())
	assert.EqualError(t, err, "channel UC123 not found")
}

func TestGetRecentVideos(t *testing.T) {
	s, _ := setupTestEnvironment(t, fakeYouTube(t, nil))

	ctx := context.Background()

	videos, err := s.GetRecentVideos(ctx, 2)
	assert.NoError(t, err)
	assert.Len(t, videos, 2)
	assert.Equal(t, "Pruning Roses in Spring", videos[0].Title)

	// non-positive count falls back to three
	videos, err = s.GetRecentVideos(ctx, 0)
	assert.NoError(t, err)
	assert.Len(t, videos, 3)

	// count past the end returns everything
	videos, err = s.GetRecentVideos(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, videos, 4)
}
