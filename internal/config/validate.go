package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	apperrors "storepulse/internal/errors"
	"storepulse/internal/period"
)

// Reconciliation policies for store sales when the financial and sales
// extracts disagree.
const (
	PolicyMax       = "max"
	PolicyFinancial = "financial"
	PolicySales     = "sales"
)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("isodate", isISODate)
	v.RegisterValidation("policy", isPolicy)

	// Use yaml tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks field constraints and that every period is ordered. All
// problems are reported together.
func (c *Config) Validate() error {
	var errs error

	if err := newValidator().Struct(c); err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ves {
				errs = multierr.Append(errs, fmt.Errorf("%s: %s", fieldPath(fe), formatValidationError(fe)))
			}
		} else {
			errs = multierr.Append(errs, err)
		}
	}

	ranges := map[string]DateRange{
		"pre":           c.Periods.Pre,
		"post":          c.Periods.Post,
		"baseline_pre":  c.Periods.BaselinePre,
		"baseline_post": c.Periods.BaselinePost,
		"snapshot":      c.Periods.Snapshot,
	}
	for _, name := range []string{"pre", "post", "baseline_pre", "baseline_post", "snapshot"} {
		r := ranges[name]
		if !validDate(r.Start) || !validDate(r.End) {
			continue
		}
		if _, err := period.New(name, r.Start, r.End); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("periods.%s: %w", name, err))
		}
	}
	if validDate(c.Periods.Pre.End) && validDate(c.Periods.Post.Start) && c.Periods.Post.Start <= c.Periods.Pre.End {
		errs = multierr.Append(errs, fmt.Errorf("periods.post: must start after periods.pre ends (%s)", c.Periods.Pre.End))
	}

	if errs == nil {
		return nil
	}

	return apperrors.NewAppError(apperrors.ErrTypeValidation, "invalid configuration", errs).
		WithContext("problems", len(multierr.Errors(errs)))
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

// formatValidationError formats validation errors into human-readable messages
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "policy":
		return fmt.Sprintf("must be one of [%s %s %s]", PolicyMax, PolicyFinancial, PolicySales)
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func isISODate(fl validator.FieldLevel) bool {
	return validDate(fl.Field().String())
}

func validDate(s string) bool {
	_, err := time.Parse(period.DateLayout, s)
	return err == nil
}

func isPolicy(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case PolicyMax, PolicyFinancial, PolicySales:
		return true
	}
	return false
}
