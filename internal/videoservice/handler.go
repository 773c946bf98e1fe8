package videoservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lazygardenertx/gardenlog/internal/common"
)

func NewVideoService(c *common.Cache, logger *slog.Logger, apiKey, channelID string) *VideoService {
	return &VideoService{
		client:    &http.Client{Timeout: 10 * time.Second},
		c:         c,
		logger:    logger,
		apiKey:    apiKey,
		channelID: channelID,
		baseURL:   defaultBaseURL,
	}
}

// GetVideos lists the channel uploads, newest first as reported by the
// uploads playlist. When no API key or channel is configured the service is
// treated as disabled and an empty list is returned.
func (s *VideoService) GetVideos(ctx context.Context) ([]Video, error) {
	if s.apiKey == "" || s.channelID == "" {
		s.logger.Warn("youtube api key or channel id not configured, returning no videos")
		return []Video{}, nil
	}

	if cached, ok := s.c.Get(common.CacheKeyVideos()); ok {
		if videos, ok := cached.([]Video); ok {
			return videos, nil
		}
	}

	playlistID, err := s.getUploadsPlaylistID(ctx)
	if err != nil {
		return nil, err
	}

	videos, err := s.getPlaylistVideos(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyVideos(), videos, time.Hour)

	return videos, nil
}

// GetRecentVideos returns the first count videos. A non-positive count
// falls back to three.
func (s *VideoService) GetRecentVideos(ctx context.Context, count int) ([]Video, error) {
	if count < 1 {
		count = 3
	}

	videos, err := s.GetVideos(ctx)
	if err != nil {
		return nil, err
	}

	if len(videos) > count {
		videos = videos[:count]
	}

	return videos, nil
}

func (s *VideoService) get(ctx context.Context, path string, query url.Values, dst any) error {
	query.Set("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube api returned status %d", res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(dst)
}

func (s *VideoService) getUploadsPlaylistID(ctx context.Context) (string, error) {
	var data struct {
		Items []struct {
			ContentDetails struct {
				RelatedPlaylists struct {
					Uploads string `json:"uploads"`
				} `json:"relatedPlaylists"`
			} `json:"contentDetails"`
		} `json:"items"`
	}

	query := url.Values{}
	query.Set("part", "contentDetails")
	query.Set("id", s.channelID)

	if err := s.get(ctx, "/channels", query, &data); err != nil {
		return "", err
	}

	if len(data.Items) == 0 {
		return "", fmt.Errorf("channel %s not found", s.channelID)
	}

	return data.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

type thumbnail struct {
	URL string `json:"url"`
}

func (s *VideoService) getPlaylistVideos(ctx context.Context, playlistID string) ([]Video, error) {
	var data struct {
		Items []struct {
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				PublishedAt string `json:"publishedAt"`
				Thumbnails  struct {
					Maxres  thumbnail `json:"maxres"`
					High    thumbnail `json:"high"`
					Medium  thumbnail `json:"medium"`
					Default thumbnail `json:"default"`
				} `json:"thumbnails"`
				ResourceID struct {
					VideoID string `json:"videoId"`
				} `json:"resourceId"`
			} `json:"snippet"`
		} `json:"items"`
	}

	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("playlistId", playlistID)
	query.Set("maxResults", "50")

	if err := s.get(ctx, "/playlistItems", query, &data); err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(data.Items))
	for i, item := range data.Items {
		sn := item.Snippet

		thumb := sn.Thumbnails.Maxres.URL
		if thumb == "" {
			thumb = sn.Thumbnails.High.URL
		}
		if thumb == "" {
			thumb = sn.Thumbnails.Medium.URL
		}
		if thumb == "" {
			thumb = sn.Thumbnails.Default.URL
		}

		// publishedAt is RFC 3339; only the date part is exposed
		publishedAt, _, _ := strings.Cut(sn.PublishedAt, "T")

		videos = append(videos, Video{
			ID:          strconv.Itoa(i + 1),
			Title:       sn.Title,
			Description: sn.Description,
			PublishedAt: publishedAt,
			Thumbnail:   thumb,
			YouTubeID:   sn.ResourceID.VideoID,
		})
	}

	return videos, nil
}
