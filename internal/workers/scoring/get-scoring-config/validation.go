// internal/workers/scoring/get-scoring-config/validation.go
package getscoringconfig

import (
	"recruit-scoring/internal/common/errors"
	"recruit-scoring/internal/common/validation"
)

func validateInput(input *Input) error {
	if result := validation.ValidateStruct(input); !result.Valid {
		return errors.NewInputValidationError(result.Error())
	}
	return nil
}
