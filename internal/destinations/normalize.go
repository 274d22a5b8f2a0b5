package destinations

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/tripweaver-seedgen/internal/common"
)

var validate = newValidator()

// newValidator reports struct fields under their json names so errors
// carry the same column names as the source table.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var (
	trueTokens  = []string{"yes", "true", "1"}
	falseTokens = []string{"no", "false", "0", ""}
)

// ParseBool maps the catalogue's yes/no style tokens to a bool.
func ParseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	switch {
	case common.EqualFoldAny(s, trueTokens...):
		return true, nil
	case common.EqualFoldAny(s, falseTokens...):
		return false, nil
	default:
		return false, errors.New("must be one of yes/no, true/false, 1/0")
	}
}

// decimalPattern admits plain decimal notation only; ParseFloat alone would
// also take hex floats, underscores, NaN and Inf.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return 0, errors.New("must be a decimal number")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("must be a decimal number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("must be a finite number")
	}
	return v, nil
}

// Normalize coerces a raw row into a Record. Every failing column is collected
// into a single *ValidationError; a partially typed Record is never returned.
func Normalize(raw RawRecord) (Record, error) {
	var errs []FieldError
	fail := func(column string, err error) {
		errs = append(errs, FieldError{Field: column, Value: raw.Fields[column], Reason: err.Error()})
	}
	field := func(column string) string {
		return strings.TrimSpace(raw.Fields[column])
	}

	rec := Record{
		City:    field(ColumnCity),
		Country: field(ColumnCountry),
		IATA:    strings.ToUpper(field(ColumnIATA)),
	}

	for _, column := range []string{ColumnCity, ColumnCountry, ColumnIATA} {
		if !utf8.ValidString(raw.Fields[column]) {
			fail(column, errors.New("must be valid UTF-8"))
		}
	}

	var err error
	if rec.AvgTempCFeb, err = parseNumber(raw.Fields[ColumnAvgTempCFeb]); err != nil {
		fail(ColumnAvgTempCFeb, err)
	}
	if rec.FlightHoursFromOrigin, err = parseNumber(raw.Fields[ColumnFlightHours]); err != nil {
		fail(ColumnFlightHours, err)
	}
	if rec.HasBeach, err = ParseBool(raw.Fields[ColumnHasBeach]); err != nil {
		fail(ColumnHasBeach, err)
	}
	if rec.HasOldTown, err = ParseBool(raw.Fields[ColumnHasOldTown]); err != nil {
		fail(ColumnHasOldTown, err)
	}

	if err := validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Record{}, fmt.Errorf("validate row %d: %w", raw.Row, err)
		}
		for _, fe := range verrs {
			// A column that failed to parse has a zero value; its constraint result is noise.
			if slices.ContainsFunc(errs, func(e FieldError) bool { return e.Field == fe.Field() }) {
				continue
			}
			fail(fe.Field(), errors.New(describeConstraint(fe)))
		}
	}

	if len(errs) > 0 {
		slices.SortStableFunc(errs, func(a, b FieldError) int {
			return slices.Index(Columns, a.Field) - slices.Index(Columns, b.Field)
		})
		return Record{}, &ValidationError{Row: raw.Row, Line: raw.Line, Fields: errs}
	}
	return rec, nil
}

func describeConstraint(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "len":
		return fmt.Sprintf("must be exactly %s letters", fe.Param())
	case "alpha":
		return "must contain only letters A-Z"
	case "gte":
		if fe.Param() == "0" {
			return "must not be negative"
		}
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
