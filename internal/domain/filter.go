package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Default filter windows, matching the globe's slider bounds.
var (
	DefaultDiameterRange = Range{Min: 0, Max: 300}
	DefaultAgeRange      = Range{Min: 0, Max: 3000}
	DefaultYearRange     = Range{Min: 860, Max: 2023}
	DefaultMassRange     = Range{Min: 0, Max: 60_000_000}
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// Contains reports whether min <= v <= max.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// Overlaps reports whether [lo, hi] intersects the range.
func (r Range) Overlaps(lo, hi float64) bool {
	return r.Min <= hi && r.Max >= lo
}

// CraterFilter selects craters. Empty sets place no constraint.
type CraterFilter struct {
	Diameter    Range    `json:"diameter"`
	Age         Range    `json:"age"`
	TargetRocks []string `json:"target_rocks,omitempty"`
	CraterTypes []string `json:"crater_types,omitempty"`
}

// DefaultCraterFilter returns a filter that keeps every crater in the
// default diameter and age windows.
func DefaultCraterFilter() CraterFilter {
	return CraterFilter{Diameter: DefaultDiameterRange, Age: DefaultAgeRange}
}

// Matches reports whether c satisfies every criterion. The age test is an
// interval intersection: a crater whose uncertainty window touches the query
// window passes.
func (f CraterFilter) Matches(c Crater) bool {
	if !f.Diameter.Contains(c.DiameterKm) {
		return false
	}
	if !f.Age.Overlaps(c.AgeMin, c.AgeMax) {
		return false
	}
	if len(f.TargetRocks) > 0 && !slices.Contains(f.TargetRocks, c.Target) {
		return false
	}
	if len(f.CraterTypes) > 0 && !slices.Contains(f.CraterTypes, c.CraterType) {
		return false
	}
	return true
}

// Key returns a canonical string identifying the filter.
func (f CraterFilter) Key() string {
	return strings.Join([]string{
		rangeKey(f.Diameter), rangeKey(f.Age), setKey(f.TargetRocks), setKey(f.CraterTypes),
	}, "|")
}

// MeteoriteFilter selects meteorites. Absent year or mass never excludes a
// record; a present but malformed one always does.
type MeteoriteFilter struct {
	Year    Range    `json:"year"`
	Mass    Range    `json:"mass"`
	Classes []string `json:"classes,omitempty"`
}

// DefaultMeteoriteFilter returns the default year and mass windows.
func DefaultMeteoriteFilter() MeteoriteFilter {
	return MeteoriteFilter{Year: DefaultYearRange, Mass: DefaultMassRange}
}

// Matches reports whether m satisfies every criterion.
func (f MeteoriteFilter) Matches(m Meteorite) bool {
	if m.Year.Present() {
		year, ok := parseYear(m.Year)
		if !ok || !f.Year.Contains(float64(year)) {
			return false
		}
	}
	if m.Mass.Present() {
		mass, ok := MassGrams(m)
		if !ok || !f.Mass.Contains(mass) {
			return false
		}
	}
	if len(f.Classes) > 0 && !slices.Contains(f.Classes, m.RecClass) {
		return false
	}
	return true
}

// Key returns a canonical string identifying the filter.
func (f MeteoriteFilter) Key() string {
	return strings.Join([]string{rangeKey(f.Year), rangeKey(f.Mass), setKey(f.Classes)}, "|")
}

// FilterError describes a rejected filter request.
type FilterError struct {
	Fields []string
	Reason string
	Err    error
}

func (e *FilterError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid filter: " + e.Reason
	}
	return fmt.Sprintf("invalid filter: %s: %s", e.Reason, strings.Join(e.Fields, ", "))
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// DecodeCraterFilter reads a JSON crater filter. Omitted fields keep their
// defaults, unknown fields are rejected, and an empty body yields the default
// filter.
func DecodeCraterFilter(r io.Reader) (CraterFilter, error) {
	f := DefaultCraterFilter()
	if err := decodeStrict(r, &f); err != nil {
		return CraterFilter{}, err
	}
	if err := ValidateFilter(f); err != nil {
		return CraterFilter{}, err
	}
	return f, nil
}

// DecodeMeteoriteFilter reads a JSON meteorite filter with the same rules as
// DecodeCraterFilter.
func DecodeMeteoriteFilter(r io.Reader) (MeteoriteFilter, error) {
	f := DefaultMeteoriteFilter()
	if err := decodeStrict(r, &f); err != nil {
		return MeteoriteFilter{}, err
	}
	if err := ValidateFilter(f); err != nil {
		return MeteoriteFilter{}, err
	}
	return f, nil
}

// ValidateFilter checks every range in a filter has max >= min.
func ValidateFilter(f any) error {
	err := filterValidator().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &FilterError{Reason: err.Error()}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		fields = append(fields, ns)
	}
	return &FilterError{Fields: fields, Reason: "max must not be less than min"}
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &FilterError{Reason: err.Error(), Err: err}
	}
	if dec.More() {
		return &FilterError{Reason: "unexpected data after filter object"}
	}
	return nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// filterValidator reports field paths by their JSON names.
func filterValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

func rangeKey(r Range) string {
	return strconv.FormatFloat(r.Min, 'g', -1, 64) + ".." + strconv.FormatFloat(r.Max, 'g', -1, 64)
}

// setKey writes "-" for no constraint and "+" plus the quoted members
// otherwise, so [""] and nil never collide.
func setKey(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var b strings.Builder
	b.WriteByte('+')
	for _, v := range sorted {
		b.WriteString(strconv.Quote(v))
	}
	return b.String()
}
