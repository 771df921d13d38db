package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/streakmap/domain"
)

func TestDecode_RecordActivity(t *testing.T) {
	var req RecordActivityRequest
	require.NoError(t, Decode([]byte(`{"task_id":"t1","date":"2024-01-02","count":0}`), &req))
	require.NotNil(t, req.Count)
	assert.Equal(t, 0, *req.Count)

	err := Decode([]byte(`{"task_id":"t1","date":"2024-01-02"}`), &RecordActivityRequest{})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Contains(t, err.Error(), "count failed required")
}

func TestDecode_MalformedJSON(t *testing.T) {
	err := Decode([]byte(`{"name":`), &CreateTaskRequest{})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestDecode_IntensityLevels(t *testing.T) {
	var req CreateTaskRequest
	require.NoError(t, Decode([]byte(`{"name":"Run"}`), &req))
	assert.Empty(t, req.IntensityLevels)

	err := Decode([]byte(`{"intensity_levels":[]}`), &UpdateIntensityRequest{})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	err = Decode([]byte(`{"intensity_levels":[{"label":"x","min_count":0,"color":"#fff"}]}`), &UpdateIntensityRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intensity_levels[0].min_count failed min=1")
}
