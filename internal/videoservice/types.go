package videoservice

import (
	"log/slog"
	"net/http"

	"github.com/lazygardenertx/gardenlog/internal/common"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
	Thumbnail   string `json:"thumbnail"`
	YouTubeID   string `json:"youtube_id"`
}

type VideoService struct {
	client    *http.Client
	c         *common.Cache
	logger    *slog.Logger
	apiKey    string
	channelID string
	baseURL   string
}
