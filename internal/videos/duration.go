package videos

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// UnknownDuration is rendered when the upstream duration is missing or malformed.
const UnknownDuration = "Unknown"

// durationPattern accepts the ISO-8601 subset the YouTube API emits: P[nD][T[nH][nM][nS]].
var durationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// FormatDuration renders an ISO-8601 duration as a clock string: "1:02:03", "05:00", "00:09".
// Hours appear only when present and are not padded. Days fold into hours.
func FormatDuration(code string) string {
	m := durationPattern.FindStringSubmatch(code)
	if m == nil || code == "P" {
		return UnknownDuration
	}

	days, ok := durationPart(m[1])
	if !ok {
		return UnknownDuration
	}
	hours, ok := durationPart(m[2])
	if !ok {
		return UnknownDuration
	}
	minutes, ok := durationPart(m[3])
	if !ok {
		return UnknownDuration
	}
	seconds, ok := durationPart(m[4])
	if !ok {
		return UnknownDuration
	}

	var b strings.Builder
	if m[2] != "" || days > 0 {
		fmt.Fprintf(&b, "%d:", days*24+hours)
	}
	fmt.Fprintf(&b, "%02d:%02d", minutes, seconds)
	return b.String()
}

func durationPart(digits string) (int, bool) {
	if digits == "" {
		return 0, true
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
