package videos

import "regexp"

// VideoID is the platform-assigned token naming a single YouTube video.
type VideoID string

// Shape names the URL form an identifier was extracted from.
type Shape string

const (
	ShapeWatch     Shape = "watch"
	ShapeShortLink Shape = "short_link"
	ShapeEmbed     Shape = "embed"
	ShapeLegacy    Shape = "legacy"
	ShapeShorts    Shape = "shorts"
)

// Match is a successfully resolved URL.
type Match struct {
	ID    VideoID
	Shape Shape
}

// maxURLLength bounds the inputs worth matching; nothing longer is a plausible video link.
const maxURLLength = 2048

var recognizedHost = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+$`)

type idPattern struct {
	shape Shape
	re    *regexp.Regexp
}

// idPatterns are tried in order and the first match wins.
var idPatterns = []idPattern{
	{shape: ShapeWatch, re: regexp.MustCompile(`youtube\.com/watch\?v=([^&\n?#]+)`)},
	{shape: ShapeShortLink, re: regexp.MustCompile(`youtu\.be/([^&\n?#]+)`)},
	{shape: ShapeEmbed, re: regexp.MustCompile(`youtube\.com/embed/([^&\n?#]+)`)},
	{shape: ShapeLegacy, re: regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`)},
	{shape: ShapeShorts, re: regexp.MustCompile(`youtube\.com/shorts/([^&\n?#]+)`)},
}

// IsRecognizedURL reports whether raw points at youtube.com or youtu.be, with or without a
// scheme and www prefix.
func IsRecognizedURL(raw string) bool {
	if raw == "" || len(raw) > maxURLLength {
		return false
	}
	return recognizedHost.MatchString(raw)
}

// Resolve extracts the video identifier from a YouTube URL. It returns false when the host is
// not recognized or no known URL shape matches.
func Resolve(raw string) (Match, bool) {
	if !IsRecognizedURL(raw) {
		return Match{}, false
	}
	for _, p := range idPatterns {
		if m := p.re.FindStringSubmatch(raw); m != nil {
			return Match{ID: VideoID(m[1]), Shape: p.shape}, true
		}
	}
	return Match{}, false
}
