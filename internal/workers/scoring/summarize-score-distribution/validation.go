// internal/workers/scoring/summarize-score-distribution/validation.go
package summarizescoredistribution

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
