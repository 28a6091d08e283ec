package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Defaults applied when a crater age has no lower or upper bound.
const (
	DefaultAgeMinMyr = 0
	DefaultAgeMaxMyr = 2500
)

// AgeKind identifies which notation an age string was written in.
type AgeKind int

const (
	AgeNoMatch AgeKind = iota
	AgeUncertainty
	AgeRange
	AgeUpperBound
	AgeLowerBound
	AgeApproximate
)

func (k AgeKind) String() string {
	switch k {
	case AgeUncertainty:
		return "uncertainty"
	case AgeRange:
		return "range"
	case AgeUpperBound:
		return "upper_bound"
	case AgeLowerBound:
		return "lower_bound"
	case AgeApproximate:
		return "approximate"
	default:
		return "no_match"
	}
}

// AgeInterval is the parsed form of a free-text age, in millions of years.
// Min is meaningful only when the kind carries a lower bound, Max only when it
// carries an upper bound; use Lower and Upper rather than reading them directly.
type AgeInterval struct {
	Kind AgeKind
	Min  float64
	Max  float64
}

// Lower returns the lower bound, if the notation has one.
func (a AgeInterval) Lower() (float64, bool) {
	switch a.Kind {
	case AgeUncertainty, AgeRange, AgeLowerBound, AgeApproximate:
		return a.Min, true
	default:
		return 0, false
	}
}

// Upper returns the upper bound, if the notation has one.
func (a AgeInterval) Upper() (float64, bool) {
	switch a.Kind {
	case AgeUncertainty, AgeRange, AgeUpperBound, AgeApproximate:
		return a.Max, true
	default:
		return 0, false
	}
}

// Resolve fills missing bounds with the given defaults.
func (a AgeInterval) Resolve(defaultMin, defaultMax float64) (float64, float64) {
	lo, ok := a.Lower()
	if !ok {
		lo = defaultMin
	}
	hi, ok := a.Upper()
	if !ok {
		hi = defaultMax
	}
	return lo, hi
}

const ageNumber = `(\d+(?:\.\d+)?)`

var (
	// "65 ± 1", "0.5±0.1", "65 +/- 1". "Â±" is ± read through a Latin-1 decoder,
	// which the published dataset contains.
	ageUncertaintyRe = regexp.MustCompile(`^` + ageNumber + `\s*(?:±|Â±|\+/-)\s*` + ageNumber)
	ageRangeRe       = regexp.MustCompile(`^~?\s*` + ageNumber + `\s*-\s*` + ageNumber)
	// A bare number is an upper bound: "31" means "no older than 31 Myr".
	ageUpperRe       = regexp.MustCompile(`^<?\s*` + ageNumber)
	ageLowerRe       = regexp.MustCompile(`^>\s*` + ageNumber)
	ageApproxRe      = regexp.MustCompile(`^~\s*` + ageNumber)
)

// ageMatcher tries one notation against trimmed input.
type ageMatcher func(text string) (AgeInterval, bool)

// ageMatchers are tried in order; the first match wins.
var ageMatchers = []ageMatcher{
	matchUncertainty,
	matchRange,
	matchUpperBound,
	matchLowerBound,
	matchApproximate,
}

// ParseAge converts a free-text crater age into an interval. Blank or
// unrecognised input yields an interval of kind AgeNoMatch.
func ParseAge(text string) AgeInterval {
	text = strings.TrimSpace(text)
	if text == "" {
		return AgeInterval{}
	}
	for _, match := range ageMatchers {
		if interval, ok := match(text); ok {
			return interval
		}
	}
	return AgeInterval{}
}

func matchUncertainty(text string) (AgeInterval, bool) {
	nums, ok := submatchFloats(ageUncertaintyRe, text, 2)
	if !ok {
		return AgeInterval{}, false
	}
	age, uncertainty := nums[0], nums[1]
	return AgeInterval{Kind: AgeUncertainty, Min: age - uncertainty, Max: age + uncertainty}, true
}

func matchRange(text string) (AgeInterval, bool) {
	nums, ok := submatchFloats(ageRangeRe, text, 2)
	if !ok {
		return AgeInterval{}, false
	}
	return AgeInterval{Kind: AgeRange, Min: nums[0], Max: nums[1]}, true
}

func matchUpperBound(text string) (AgeInterval, bool) {
	nums, ok := submatchFloats(ageUpperRe, text, 1)
	if !ok {
		return AgeInterval{}, false
	}
	return AgeInterval{Kind: AgeUpperBound, Max: nums[0]}, true
}

func matchLowerBound(text string) (AgeInterval, bool) {
	nums, ok := submatchFloats(ageLowerRe, text, 1)
	if !ok {
		return AgeInterval{}, false
	}
	return AgeInterval{Kind: AgeLowerBound, Min: nums[0]}, true
}

func matchApproximate(text string) (AgeInterval, bool) {
	nums, ok := submatchFloats(ageApproxRe, text, 1)
	if !ok {
		return AgeInterval{}, false
	}
	return AgeInterval{Kind: AgeApproximate, Min: nums[0], Max: nums[0]}, true
}

// submatchFloats returns the first n capture groups of re parsed as floats.
func submatchFloats(re *regexp.Regexp, text string, n int) ([]float64, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) != n+1 {
		return nil, false
	}
	out := make([]float64, n)
	for i := range n {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
