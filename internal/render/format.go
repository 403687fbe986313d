package render

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Placeholders shown when a value cannot be formatted.
const (
	TimeUnavailable     = "Time unavailable"
	DurationUnavailable = "Duration unavailable"
	PriceUnavailable    = "Price unavailable"
)

// CurrencySymbol prefixes every price. No conversion is applied.
const CurrencySymbol = "$"

var errEmptyTime = errors.New("empty time")

// Layouts without a zone are read in the display location, except a bare
// date, which is read as UTC.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTime parses a provider timestamp.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyTime
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// Formatted is the result of formatting a value that may be unavailable.
type Formatted struct {
	Text string
	OK   bool
}

// Or returns the formatted text, or fallback when formatting failed.
func (f Formatted) Or(fallback string) string {
	if !f.OK {
		return fallback
	}
	return f.Text
}

// FormatClock formats s as a 12-hour clock time with a two-digit hour,
// e.g. "02:05 PM", in loc.
func FormatClock(s string, loc *time.Location) Formatted {
	t, err := ParseTime(s, loc)
	if err != nil {
		return Formatted{}
	}
	return Formatted{Text: t.In(loc).Format("03:04 PM"), OK: true}
}

// FormatDuration formats the time between departure and arrival as
// "<H>h <M>m". Hours are floor(minutes/60) and minutes floor(minutes mod 60),
// so negative spans keep both parts negative.
func FormatDuration(departure, arrival string, loc *time.Location) Formatted {
	start, err := ParseTime(departure, loc)
	if err != nil {
		return Formatted{}
	}
	end, err := ParseTime(arrival, loc)
	if err != nil {
		return Formatted{}
	}
	total := end.Sub(start).Minutes()
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return Formatted{}
	}
	hours := math.Floor(total / 60)
	minutes := math.Floor(math.Mod(total, 60))
	return Formatted{Text: fmt.Sprintf("%dh %dm", int64(hours), int64(minutes)), OK: true}
}

// FormatPrice formats p with Indian digit grouping (1,25,000), at most three
// fraction digits, prefixed with CurrencySymbol.
func FormatPrice(p *float64) Formatted {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return Formatted{}
	}
	v := *p
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 3, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	if intPart == "0" && frac == "" {
		sign = ""
	}
	out := CurrencySymbol + sign + groupIndian(intPart)
	if frac != "" {
		out += "." + frac
	}
	return Formatted{Text: out, OK: true}
}

// groupIndian inserts separators after the last three digits and then after
// every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(groups, ",") + "," + tail
}
