package timeline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Fixed markers that are not expressed as an offset from service.
const (
	Service = "Service"
	DayOf   = "Day-of"
)

var (
	methodWrapperOpen  = regexp.MustCompile(`(?i)^Method\s*\(`)
	methodWrapperClose = regexp.MustCompile(`\)$`)
	orEarlier          = regexp.MustCompile(`(?i)\s+or\s+earlier`)
	dayOfPattern       = regexp.MustCompile(`(?i)day\s*[-–—]?\s*of`)
	servicePattern     = regexp.MustCompile(`(?i)^(service|plating)$`)
	serveHeading       = regexp.MustCompile(`(?i)^(service|plating|to\s*serve)\b`)
	zeroOffset         = regexp.MustCompile(`(?i)T\s*[-–—]\s*0+(?:\s*(?:m|mins?|minutes?|h|hours?|d|days?))?\b`)
	unitOffset         = regexp.MustCompile(`(?i)T\s*[-–—]\s*(\d+)\s*(m|min|mins|minutes?|h|hours?|d|days?)`)
	bareOffset         = regexp.MustCompile(`(?i)T\s*[-–—]\s*(\d+)\s*$`)
	offsetHeading      = regexp.MustCompile(`(?i)^T\s*[-–—]\s*\d+`)
	canonicalOffset    = regexp.MustCompile(`^T-(\d+)(m|h)$`)
)

// Normalize maps a free-text timeline phrase onto the canonical vocabulary:
// T-<N>m, T-<N>h, Day-of or Service. Unrecognized text becomes Service.
func Normalize(raw string) string {
	canonical, _ := ParseMarker(raw)
	return canonical
}

// ParseMarker is Normalize that also reports whether the phrase was
// recognized, so callers can surface markers that fell back to Service.
func ParseMarker(raw string) (string, bool) {
	marker := strings.TrimSpace(raw)
	marker = methodWrapperOpen.ReplaceAllString(marker, "")
	marker = methodWrapperClose.ReplaceAllString(marker, "")
	marker = orEarlier.ReplaceAllString(marker, "")
	marker = strings.TrimSpace(marker)

	if dayOfPattern.MatchString(marker) {
		return DayOf, true
	}
	if servicePattern.MatchString(marker) {
		return Service, true
	}
	if zeroOffset.MatchString(marker) {
		return Service, true
	}

	if m := unitOffset.FindStringSubmatch(marker); m != nil {
		if value, err := strconv.Atoi(m[1]); err == nil {
			switch strings.ToLower(m[2])[0] {
			case 'm':
				if value%60 == 0 {
					return "T-" + strconv.Itoa(value/60) + "h", true
				}
				return "T-" + strconv.Itoa(value) + "m", true
			case 'd':
				return "T-" + strconv.Itoa(value*24) + "h", true
			default:
				return "T-" + strconv.Itoa(value) + "h", true
			}
		}
	}

	if m := bareOffset.FindStringSubmatch(marker); m != nil {
		if value, err := strconv.Atoi(m[1]); err == nil {
			return "T-" + strconv.Itoa(value) + "h", true
		}
	}

	// Service headings with extra words still mean service.
	if serveHeading.MatchString(marker) {
		return Service, true
	}
	return Service, false
}

// LooksLikeMarker reports whether a heading reads like a timeline marker:
// a T-<N> offset, a "day of" variant, or service, plating or "to serve".
func LooksLikeMarker(header string) bool {
	header = strings.TrimSpace(header)
	return offsetHeading.MatchString(header) ||
		dayOfPattern.MatchString(header) ||
		serveHeading.MatchString(header)
}

// Minutes returns how many minutes before service a canonical marker sits.
// Unknown markers return -1 so they sort last.
func Minutes(marker string) int {
	switch marker {
	case Service:
		return 0
	case DayOf:
		return 30
	}

	m := canonicalOffset.FindStringSubmatch(marker)
	if m == nil {
		return -1
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	if m[2] == "m" {
		return value
	}
	return value * 60
}

// Sort returns markers ordered furthest-from-service first, Service last.
// Markers with equal keys keep their input order.
func Sort(markers []string) []string {
	sorted := append([]string(nil), markers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Minutes(sorted[i]) > Minutes(sorted[j])
	})
	return sorted
}
