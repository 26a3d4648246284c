package videos

// Fallback literals used when the upstream omits a field.
const (
	fallbackTitle    = "Unknown title"
	fallbackAuthor   = "Unknown author"
	fallbackPrivacy  = "public"
	fallbackLanguage = "unknown"
)

// VideoInfo is the public description of a video returned to callers.
type VideoInfo struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Thumbnail            string     `json:"thumbnail"`
	Duration             string     `json:"duration"`
	Author               string     `json:"author"`
	PublishedAt          string     `json:"publishedAt"`
	Statistics           Statistics `json:"statistics"`
	Tags                 []string   `json:"tags"`
	Category             string     `json:"category"`
	PrivacyStatus        string     `json:"privacyStatus"`
	DefaultLanguage      string     `json:"defaultLanguage"`
	DefaultAudioLanguage string     `json:"defaultAudioLanguage"`
}

// Statistics holds engagement counters.
type Statistics struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// Normalize maps an upstream item onto VideoInfo, substituting a fallback for every missing
// field. It never fails.
func Normalize(raw RawMetadata) VideoInfo {
	snippet := raw.snippet()
	stats := raw.statistics()

	tags := make([]string, 0, len(snippet.Tags))
	tags = append(tags, snippet.Tags...)

	return VideoInfo{
		ID:          raw.ID,
		Title:       orDefault(snippet.Title, fallbackTitle),
		Description: snippet.Description,
		Thumbnail:   snippet.bestThumbnail(),
		Duration:    FormatDuration(raw.durationCode()),
		Author:      orDefault(snippet.ChannelTitle, fallbackAuthor),
		PublishedAt: snippet.PublishedAt,
		Statistics: Statistics{
			Views:    stats.ViewCount.Int64(),
			Likes:    stats.LikeCount.Int64(),
			Comments: stats.CommentCount.Int64(),
		},
		Tags:                 tags,
		Category:             snippet.CategoryID,
		PrivacyStatus:        orDefault(raw.privacyStatus(), fallbackPrivacy),
		DefaultLanguage:      orDefault(snippet.DefaultLanguage, fallbackLanguage),
		DefaultAudioLanguage: orDefault(snippet.DefaultAudioLanguage, fallbackLanguage),
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
