// internal/workers/scoring/update-scoring-config/validation.go
package updatescoringconfig

import (
	"recruit-scoring/internal/backend"
	"recruit-scoring/internal/common/errors"
	"recruit-scoring/internal/common/validation"
	"recruit-scoring/internal/scoring"
)

func validateInput(input *Input) error {
	if result := validation.ValidateStruct(input); !result.Valid {
		return errors.NewInputValidationError(result.Error())
	}
	return nil
}

// decodeWeights rejects malformed documents with INVALID_CRITERION or
// INVALID_TOTAL, the same codes the service uses.
func decodeWeights(raw []byte) (scoring.ScoringWeights, error) {
	weights, err := scoring.ValidateJSON(raw)
	if err != nil {
		return scoring.ScoringWeights{}, backend.FromConfigError(err)
	}
	return weights, nil
}
