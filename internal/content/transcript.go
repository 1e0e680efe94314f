package content

import (
	"context"
	"fmt"
)

// PlaceholderTranscripts stands in for a captions provider and returns a fixed
// text naming the video.
type PlaceholderTranscripts struct{}

func (PlaceholderTranscripts) Transcript(_ context.Context, videoID string) (string, error) {
	return fmt.Sprintf("Transcript placeholder for video %s. Lessons are generated from the topic alone.", videoID), nil
}
