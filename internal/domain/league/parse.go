package league

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	clockRe    = regexp.MustCompile(`^\d{2}:\d{2}$`)
	scoreRe    = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	germanDay  = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
)

// DateLayout is the storage format of fixture and result dates.
const DateLayout = "2006-01-02"

const germanDateLayout = "02.01.2006"

// Clean trims s and collapses inner whitespace runs to one space.
func Clean(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ParseGermanDate parses "02.01.2026" or "Freitag, 02.01.2026".
func ParseGermanDate(cell string) (time.Time, bool) {
	s := Clean(cell)
	if i := strings.Index(s, ","); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	d, err := time.Parse(germanDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// LooksLikeGermanDate reports whether s starts with a dd.mm.yyyy date.
func LooksLikeGermanDate(s string) bool {
	loc := germanDay.FindStringIndex(strings.TrimSpace(s))
	return loc != nil && loc[0] == 0
}

// ParseClock accepts exactly HH:MM.
func ParseClock(cell string) (string, bool) {
	s := Clean(cell)
	if !clockRe.MatchString(s) {
		return "", false
	}
	return s, true
}

// ParseMatchday reads an integer matchday; anything else yields nil.
func ParseMatchday(cell string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil {
		return nil
	}
	return &n
}

// Score is a parsed "H - A" result with its overtime marker.
type Score struct {
	Home     int
	Away     int
	Overtime bool
	Shootout bool
}

// ParseScore reads "3 - 2", "3 - 2 (OT)", "2-3 n.P." and similar.
func ParseScore(s string) (Score, bool) {
	m := scoreRe.FindStringSubmatch(s)
	if m == nil {
		return Score{}, false
	}
	home, _ := strconv.Atoi(m[1])
	away, _ := strconv.Atoi(m[2])
	return Score{
		Home:     home,
		Away:     away,
		Overtime: strings.Contains(s, "(OT)") || strings.Contains(s, "n.V."),
		Shootout: strings.Contains(s, "(SO)") || strings.Contains(s, "n.P."),
	}, true
}

// Extra reports whether the game went past regulation.
func (s Score) Extra() bool {
	return s.Overtime || s.Shootout
}

// Faceoff combines a date and HH:MM clock in loc into an ISO timestamp
// with minute precision, e.g. "2026-01-02T19:30+01:00".
func Faceoff(date time.Time, clock string, loc *time.Location) (string, bool) {
	t, err := time.ParseInLocation(DateLayout+" 15:04", date.Format(DateLayout)+" "+clock, loc)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02T15:04Z07:00"), true
}
