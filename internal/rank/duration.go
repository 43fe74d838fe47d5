package rank

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NoDuration is displayed for empty or unparseable durations.
const NoDuration = "-"

// durationPattern matches the ISO-8601 durations the API emits: PT#H#M#S, with an
// optional day part for very long streams and P0D for live or upcoming ones.
var durationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// Duration is a decoded video length.
type Duration struct {
	Seconds int
	Display string
}

// DecodeDuration converts an encoded duration to seconds and a display string.
// Days are folded into hours. Anything unparseable decodes to 0 and NoDuration.
func DecodeDuration(raw string) Duration {
	m := durationPattern.FindStringSubmatch(raw)
	if m == nil || raw == "P" {
		return Duration{Display: NoDuration}
	}

	var parts [4]int
	for i, s := range m[1:] {
		n, ok := component(s)
		if !ok {
			return Duration{Display: NoDuration}
		}
		parts[i] = n
	}
	days, hours, minutes, seconds := parts[0], parts[1], parts[2], parts[3]
	hours += days * 24

	d := Duration{Seconds: hours*3600 + minutes*60 + seconds}
	if hours > 0 || m[2] != "" {
		d.Display = fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	} else {
		d.Display = fmt.Sprintf("%d:%02d", minutes, seconds)
	}
	return d
}

// maxComponent bounds each duration component so the total cannot overflow.
const maxComponent = 1_000_000

func component(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > maxComponent {
		return 0, false
	}
	return n, true
}

// ContentType is the short-form / long-form classification of a video.
type ContentType int

const (
	Short ContentType = iota
	Long
)

func (c ContentType) String() string {
	if c == Long {
		return "long"
	}
	return "short"
}

// Label is the display label; the type sort key orders by it.
func (c ContentType) Label() string {
	if c == Long {
		return "long-form"
	}
	return "shorts"
}

// ClassifyDuration reports Long when the raw encoding carries a minutes token.
// This mirrors how the listing has always labelled videos; an hours-and-seconds
// only encoding such as PT1H5S is therefore Short.
func ClassifyDuration(raw string) ContentType {
	if strings.Contains(raw, "M") {
		return Long
	}
	return Short
}
