package common

import (
	"os"
	"path/filepath"
	"testing"

	"talentflow/internal/artifact/artifacttest"
	"talentflow/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResumesSingleObject(t *testing.T) {
	inputs := DecodeResumes("gen_user_1.json", artifacttest.SampleResumeJSON)

	require.Len(t, inputs, 1)
	assert.Equal(t, "gen_user_1.json", inputs[0].Source)
	require.NoError(t, inputs[0].ParseErr)
	assert.Equal(t, "gen_user_1", inputs[0].Record.UserID)
}

func TestDecodeResumesArray(t *testing.T) {
	data := []byte(`[{"userId":"a"}, 42, {"userId":"b","professionalExperiences":"oops"}, {"userId":"c"}]`)

	inputs := DecodeResumes("batch.json", data)

	require.Len(t, inputs, 4)
	assert.Equal(t, "batch.json#0", inputs[0].Source)
	assert.Equal(t, "a", inputs[0].Record.UserID)

	assert.Equal(t, "batch.json#1", inputs[1].Source)
	assert.True(t, errors.HasCode(inputs[1].ParseErr, errors.ErrCodeInvalidFormat))
	assert.Nil(t, inputs[1].Record)

	assert.True(t, errors.IsType(inputs[2].ParseErr, errors.ErrorTypeValidation))
	assert.Equal(t, "c", inputs[3].Record.UserID)
}

func TestDecodeResumesInvalid(t *testing.T) {
	for name, data := range map[string]string{
		"empty":        "   ",
		"broken array": `[{"userId":"a"`,
		"broken":       `{"userId":`,
		"scalar":       `"resume"`,
	} {
		t.Run(name, func(t *testing.T) {
			inputs := DecodeResumes("in.json", []byte(data))
			require.Len(t, inputs, 1)
			assert.Equal(t, "in.json", inputs[0].Source)
			assert.True(t, errors.HasCode(inputs[0].ParseErr, errors.ErrCodeInvalidFormat))
		})
	}
}

func TestReadResumes(t *testing.T) {
	dir := t.TempDir()
	single := filepath.Join(dir, "single.json")
	many := filepath.Join(dir, "many.json")
	require.NoError(t, os.WriteFile(single, artifacttest.SampleResumeJSON, 0o600))
	require.NoError(t, os.WriteFile(many, []byte(`[{"userId":"x"},{"userId":"y"}]`), 0o600))

	fp := NewFileProcessor(nil)
	inputs, err := fp.ReadResumes(single, many)
	require.NoError(t, err)
	require.Len(t, inputs, 3)
	assert.Equal(t, single, inputs[0].Source)
	assert.Equal(t, many+"#1", inputs[2].Source)

	_, err = fp.ReadResumes(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.HasCode(err, "INVALID_INPUT_FILE"))
}

func TestWriteFileCreatesDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "result.json")

	require.NoError(t, NewFileProcessor(nil).WriteFile(out, "{}\n"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}
