package stations

import (
	"fmt"
	"strconv"
	"strings"
)

// Station represents a single radio-browser station. Identity fields are set
// once at parse time; the operational counters are refreshed in place by
// later catalog fetches.
type Station struct {
	UUID        string
	Name        string
	URL         string
	URLResolved string
	Homepage    string
	Favicon     string
	Country     string
	CountryCode string
	Language    string
	Tags        string
	Codec       string
	Bitrate     int

	Votes         int
	ClickCount    int
	ClickTrend    int
	LastCheckOK   bool
	LastCheckTime string
	LastClickTime string
	SSLError      bool
	Starred       bool

	upToDate    bool
	changedInfo string
}

// ParseStation extracts a station from a raw catalog entry. Missing fields
// are tolerated and left at their zero value. Legacy (v1) field names are
// accepted as fallbacks for entries saved by old versions of the catalog.
func ParseStation(raw map[string]any) *Station {
	return &Station{
		UUID:        stringField(raw, "stationuuid", "id"),
		Name:        stringField(raw, "name", "title"),
		URL:         stringField(raw, "url"),
		URLResolved: stringField(raw, "url_resolved"),
		Homepage:    stringField(raw, "homepage"),
		Favicon:     stringField(raw, "favicon", "favicon-url"),
		Country:     stringField(raw, "country", "location"),
		CountryCode: stringField(raw, "countrycode"),
		Language:    stringField(raw, "language"),
		Tags:        stringField(raw, "tags"),
		Codec:       stringField(raw, "codec"),
		Bitrate:     intField(raw, "bitrate"),

		Votes:         intField(raw, "votes"),
		ClickCount:    intField(raw, "clickcount"),
		ClickTrend:    intField(raw, "clicktrend"),
		LastCheckOK:   intField(raw, "lastcheckok") == 1,
		LastCheckTime: stringField(raw, "lastchecktime"),
		LastClickTime: stringField(raw, "clicktimestamp"),
		SSLError:      intField(raw, "ssl_error") == 1,
	}
}

// StreamURL returns the playable URL, preferring the resolved one.
func (s *Station) StreamURL() string {
	if s.URLResolved != "" {
		return s.URLResolved
	}
	return s.URL
}

// UpToDate reports whether the last reconciliation found the cached record
// equivalent to the freshly fetched one.
func (s *Station) UpToDate() bool { return s.upToDate }

// ChangedInfo returns the human-readable description of field differences
// found by the last reconciliation, or the empty string.
func (s *Station) ChangedInfo() string { return s.changedInfo }

// SetUpToDateWith compares the station against a freshly fetched copy and
// records the result. Only the playback-relevant fields (stream URL, bitrate,
// codec) decide the verdict; everything else only contributes to the
// description text when the verdict is already stale.
//
// A nil other or a UUID mismatch is not comparable: the method returns false
// and leaves the recorded state untouched.
func (s *Station) SetUpToDateWith(other *Station) bool {
	if other == nil || other.UUID != s.UUID {
		return false
	}

	if s.URL == other.URL && s.Bitrate == other.Bitrate && s.Codec == other.Codec {
		s.upToDate = true
		s.changedInfo = ""
		return true
	}

	s.upToDate = false
	s.changedInfo = describeChanges(s, other)
	return false
}

// describeChanges builds one line per differing field, old value first.
func describeChanges(old, fresh *Station) string {
	var b strings.Builder

	appendChange := func(field, was, now string) {
		if was != now {
			fmt.Fprintf(&b, "%s changed from %q to %q\n", field, was, now)
		}
	}

	appendChange("stream URL", old.URL, fresh.URL)
	appendChange("resolved URL", old.URLResolved, fresh.URLResolved)
	appendChange("favicon", old.Favicon, fresh.Favicon)
	appendChange("homepage", old.Homepage, fresh.Homepage)
	appendChange("tags", old.Tags, fresh.Tags)
	if old.Bitrate != fresh.Bitrate {
		fmt.Fprintf(&b, "bitrate changed from %d to %d\n", old.Bitrate, fresh.Bitrate)
	}
	appendChange("codec", old.Codec, fresh.Codec)

	return b.String()
}

// refreshCountersFrom copies the mutable operational fields from a freshly
// fetched copy of the same station.
func (s *Station) refreshCountersFrom(fresh *Station) {
	s.Votes = fresh.Votes
	s.ClickCount = fresh.ClickCount
	s.ClickTrend = fresh.ClickTrend
	s.LastCheckOK = fresh.LastCheckOK
	s.LastCheckTime = fresh.LastCheckTime
	s.LastClickTime = fresh.LastClickTime
	s.SSLError = fresh.SSLError
}

// stringField returns the first present key as a string. The fallback keys
// cover the legacy record shape.
func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// intField coerces JSON numbers and numeric strings; anything else is zero.
func intField(raw map[string]any, keys ...string) int {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
				return i
			}
		case bool:
			if n {
				return 1
			}
			return 0
		}
	}
	return 0
}
