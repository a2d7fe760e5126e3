// Package validator turns field-level validation results into 422 errors.
package validator

import (
	"fmt"
	"maps"

	"github.com/garrettladley/snooze/internal/xerrors"
)

type Validator interface {
	// Validate returns messages keyed by JSON field name, or nil when valid.
	Validate() map[string]string
}

func Validate(v Validator) *xerrors.Error {
	if fields := v.Validate(); len(fields) > 0 {
		return xerrors.Validation(fields)
	}
	return nil
}

// ValidateAll validates every item before reporting, so a batch is rejected
// as a whole. With more than one item each field is prefixed by its position,
// e.g. "[3].time_got_into_bed".
func ValidateAll[T Validator](items []T) *xerrors.Error {
	fields := map[string]string{}
	for i, item := range items {
		errs := item.Validate()
		if len(items) == 1 {
			maps.Copy(fields, errs)
			continue
		}
		for k, v := range errs {
			fields[fmt.Sprintf("[%d].%s", i, k)] = v
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return xerrors.Validation(fields)
}
