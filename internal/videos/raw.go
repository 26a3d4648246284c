package videos

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawMetadata is a single item of a YouTube videos.list response. Every facet is optional;
// use the accessors rather than dereferencing the pointers directly.
type RawMetadata struct {
	ID             string             `json:"id"`
	Snippet        *RawSnippet        `json:"snippet,omitempty"`
	ContentDetails *RawContentDetails `json:"contentDetails,omitempty"`
	Statistics     *RawStatistics     `json:"statistics,omitempty"`
	Status         *RawStatus         `json:"status,omitempty"`
}

// RawSnippet carries the descriptive facet of a video.
type RawSnippet struct {
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	ChannelTitle         string         `json:"channelTitle"`
	PublishedAt          string         `json:"publishedAt"`
	Thumbnails           *RawThumbnails `json:"thumbnails,omitempty"`
	Tags                 []string       `json:"tags,omitempty"`
	CategoryID           string         `json:"categoryId"`
	DefaultLanguage      string         `json:"defaultLanguage"`
	DefaultAudioLanguage string         `json:"defaultAudioLanguage"`
}

// RawThumbnails lists the thumbnail variants keyed by resolution.
type RawThumbnails struct {
	Default  *RawThumbnail `json:"default,omitempty"`
	Medium   *RawThumbnail `json:"medium,omitempty"`
	High     *RawThumbnail `json:"high,omitempty"`
	Standard *RawThumbnail `json:"standard,omitempty"`
	Maxres   *RawThumbnail `json:"maxres,omitempty"`
}

// RawThumbnail is one thumbnail variant.
type RawThumbnail struct {
	URL string `json:"url"`
}

// RawContentDetails carries the ISO-8601 duration code.
type RawContentDetails struct {
	Duration string `json:"duration"`
}

// RawStatistics carries engagement counters. YouTube encodes them as decimal strings.
type RawStatistics struct {
	ViewCount    NumericString `json:"viewCount"`
	LikeCount    NumericString `json:"likeCount"`
	CommentCount NumericString `json:"commentCount"`
}

// RawStatus carries the privacy facet of a video.
type RawStatus struct {
	PrivacyStatus string `json:"privacyStatus"`
}

// NumericString holds a counter exactly as the upstream sent it. Decoding never fails:
// strings are kept verbatim, numbers keep their literal text, anything else is dropped.
type NumericString string

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = ""
			return nil
		}
		*n = NumericString(s)
		return nil
	}
	if data[0] == '-' || (data[0] >= '0' && data[0] <= '9') {
		*n = NumericString(data)
		return nil
	}
	*n = ""
	return nil
}

// Int64 parses the counter, returning 0 when it is absent, malformed or negative.
func (n NumericString) Int64() int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func (r RawMetadata) snippet() RawSnippet {
	if r.Snippet == nil {
		return RawSnippet{}
	}
	return *r.Snippet
}

func (r RawMetadata) statistics() RawStatistics {
	if r.Statistics == nil {
		return RawStatistics{}
	}
	return *r.Statistics
}

func (r RawMetadata) durationCode() string {
	if r.ContentDetails == nil {
		return ""
	}
	return r.ContentDetails.Duration
}

func (r RawMetadata) privacyStatus() string {
	if r.Status == nil {
		return ""
	}
	return r.Status.PrivacyStatus
}

// bestThumbnail picks maxres, then high, then default.
func (s RawSnippet) bestThumbnail() string {
	if s.Thumbnails == nil {
		return ""
	}
	for _, t := range []*RawThumbnail{s.Thumbnails.Maxres, s.Thumbnails.High, s.Thumbnails.Default} {
		if t != nil && t.URL != "" {
			return t.URL
		}
	}
	return ""
}
