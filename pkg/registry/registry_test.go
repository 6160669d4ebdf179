// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegistry(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadRegistry(t *testing.T) {
	path := writeRegistry(t, `{
		"version": "1.0.0",
		"activities": [
			{"id": "score", "taskType": "calculate-candidate-score", "timeout": "30s", "retries": 3}
		]
	}`)

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	a, ok := reg.Find("calculate-candidate-score")
	require.True(t, ok)
	assert.Equal(t, "score", a.ID)

	_, ok = reg.Find("unknown")
	assert.False(t, ok)
}

func TestLoadRegistry_Malformed(t *testing.T) {
	_, err := LoadRegistry(writeRegistry(t, `{"activities": [`))
	require.Error(t, err)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		activities []Activity
		wantErr    string
	}{
		{
			name:       "missing task type",
			activities: []Activity{{ID: "a"}},
			wantErr:    "taskType",
		},
		{
			name: "duplicate task type",
			activities: []Activity{
				{ID: "a", TaskType: "get-scoring-config"},
				{ID: "b", TaskType: "get-scoring-config"},
			},
			wantErr: "duplicate",
		},
		{
			name:       "bad timeout",
			activities: []Activity{{ID: "a", TaskType: "t", Timeout: "thirty seconds"}},
			wantErr:    "timeout",
		},
		{
			name:       "negative retries",
			activities: []Activity{{ID: "a", TaskType: "t", Retries: -1}},
			wantErr:    "retries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ActivityRegistry{Activities: tt.activities}).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
