package schedule

import (
	"fmt"
	"sort"
	"strings"
)

var (
	patternMonFri = WeekPattern{false, true, true, true, true, true, false}
	patternMWF    = WeekPattern{false, true, false, true, false, true, false}
	patternMW     = WeekPattern{false, true, false, true, false, false, false}
	patternTT     = WeekPattern{false, false, true, false, true, false, false}
	patternTTF    = WeekPattern{false, false, true, false, true, true, false}
	patternSat    = WeekPattern{false, false, false, false, false, false, true}
	patternSatSun = WeekPattern{true, false, false, false, false, false, true}
)

// Preset is a named weekly recurrence, optionally alternating A/B
type Preset struct {
	Name  string
	Label string
	A     WeekPattern
	B     *WeekPattern
}

func alternating(p WeekPattern) *WeekPattern {
	return &p
}

var presets = map[string]Preset{
	"mon-fri": {Name: "mon-fri", Label: "월~금", A: patternMonFri},
	"mw":      {Name: "mw", Label: "월수", A: patternMW},
	"mwf":     {Name: "mwf", Label: "월수금", A: patternMWF},
	"tt":      {Name: "tt", Label: "화목", A: patternTT},
	"ttf":     {Name: "ttf", Label: "화목금", A: patternTTF},
	"sat":     {Name: "sat", Label: "토", A: patternSat},
	"sat-sun": {Name: "sat-sun", Label: "토일", A: patternSatSun},

	"mwf-mw": {Name: "mwf-mw", Label: "월수금/월수", A: patternMWF, B: alternating(patternMW)},
	"mw-mwf": {Name: "mw-mwf", Label: "월수/월수금", A: patternMW, B: alternating(patternMWF)},
	"ttf-tt": {Name: "ttf-tt", Label: "화목금/화목", A: patternTTF, B: alternating(patternTT)},
	"tt-ttf": {Name: "tt-ttf", Label: "화목/화목금", A: patternTT, B: alternating(patternTTF)},
}

// LookupPreset returns the preset registered under name
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if ok && p.B != nil {
		b := *p.B
		p.B = &b
	}
	return p, ok
}

// PresetNames returns the registered preset names, sorted
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var weekdayTokens = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
	"일": 0, "월": 1, "화": 2, "수": 3, "목": 4, "금": 5, "토": 6,
}

// ParseWeekPattern parses "mon,wed,fri" or "월수금" into a WeekPattern.
// An empty string or "-" is a pattern with no training days.
func ParseWeekPattern(s string) (WeekPattern, error) {
	var p WeekPattern

	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "-" {
		return p, nil
	}

	var tokens []string
	if strings.ContainsAny(s, ", ") {
		tokens = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	} else if _, ok := weekdayTokens[s]; ok {
		tokens = []string{s}
	} else {
		for _, r := range s {
			tokens = append(tokens, string(r))
		}
	}

	for _, tok := range tokens {
		if len(tok) > 3 {
			tok = tok[:3]
		}
		idx, ok := weekdayTokens[tok]
		if !ok {
			return WeekPattern{}, fmt.Errorf("unknown weekday %q in pattern %q", tok, s)
		}
		p[idx] = true
	}

	return p, nil
}

// String renders the pattern with Korean weekday names, e.g. "월수금"
func (p WeekPattern) String() string {
	names := [7]string{"일", "월", "화", "수", "목", "금", "토"}

	var b strings.Builder
	for _, idx := range []int{1, 2, 3, 4, 5, 6, 0} {
		if p[idx] {
			b.WriteString(names[idx])
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// IsEmpty reports whether no weekday is selected
func (p WeekPattern) IsEmpty() bool {
	for _, v := range p {
		if v {
			return false
		}
	}
	return true
}
