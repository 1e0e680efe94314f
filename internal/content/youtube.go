package content

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

const (
	youtubeSearchResults = 5
	youtubeKeep          = 3
)

var languageCodes = map[string]string{
	"english": "en",
	"hindi":   "hi",
	"telugu":  "te",
	"tamil":   "ta",
}

type YouTubeSource struct {
	svc *youtube.Service
	log *logger.Logger
}

// NewYouTubeSource builds a search client keyed by apiKey. Extra options are
// appended, which lets tests point the client at a local endpoint.
func NewYouTubeSource(ctx context.Context, log *logger.Logger, apiKey string, opts ...option.ClientOption) (*YouTubeSource, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("youtube: %w", ErrNotConfigured)
	}
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return &YouTubeSource{svc: svc, log: log.With("service", "YouTubeSource")}, nil
}

func searchQuery(topic, language string) string {
	q := fmt.Sprintf("%s tutorial %s", topic, language)
	if !strings.EqualFold(language, "english") {
		q += fmt.Sprintf(" %s language", language)
	}
	return q
}

// Search returns the top videos for topic ranked by likes per view.
func (s *YouTubeSource) Search(ctx context.Context, topic, language string) ([]api.Video, error) {
	call := s.svc.Search.List([]string{"snippet"}).
		Q(searchQuery(topic, language)).
		Type("video").
		MaxResults(youtubeSearchResults).
		Order("relevance").
		VideoDuration("medium")
	if code, ok := languageCodes[strings.ToLower(language)]; ok {
		call = call.RelevanceLanguage(code)
	}
	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	videos := make([]api.Video, 0, len(res.Items))
	ids := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		v := api.Video{
			VideoID:     item.Id.VideoId,
			Title:       item.Snippet.Title,
			ChannelName: item.Snippet.ChannelTitle,
		}
		if th := item.Snippet.Thumbnails; th != nil && th.Medium != nil {
			v.ThumbnailURL = th.Medium.Url
		}
		videos = append(videos, v)
		ids = append(ids, v.VideoID)
	}
	if len(videos) == 0 {
		return videos, nil
	}

	// Missing statistics leave a video at zero engagement instead of failing
	// the search.
	details, err := s.svc.Videos.List([]string{"statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		s.log.Warn("YouTube video details failed", "error", err, "count", len(ids))
	} else {
		byID := make(map[string]*youtube.Video, len(details.Items))
		for _, d := range details.Items {
			byID[d.Id] = d
		}
		for i := range videos {
			d := byID[videos[i].VideoID]
			if d == nil {
				continue
			}
			if d.ContentDetails != nil {
				videos[i].Duration = d.ContentDetails.Duration
			}
			if d.Statistics != nil {
				videos[i].ViewCount = int64(d.Statistics.ViewCount)
				videos[i].EngagementScore = EngagementScore(d.Statistics.ViewCount, d.Statistics.LikeCount)
			}
		}
	}

	return RankVideos(videos, youtubeKeep), nil
}

// EngagementScore is likes per hundred views; zero views score zero.
func EngagementScore(views, likes uint64) float64 {
	if views == 0 {
		return 0
	}
	return float64(likes) / float64(views) * 100
}

// RankVideos sorts by engagement, highest first, and keeps at most keep.
func RankVideos(videos []api.Video, keep int) []api.Video {
	out := append([]api.Video(nil), videos...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EngagementScore > out[j].EngagementScore
	})
	if keep > 0 && len(out) > keep {
		out = out[:keep]
	}
	return out
}
