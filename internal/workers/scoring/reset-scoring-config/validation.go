// internal/workers/scoring/reset-scoring-config/validation.go
package resetscoringconfig

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
