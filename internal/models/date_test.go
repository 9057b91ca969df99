package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentals/internal/models"
)

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Available *models.Date `json:"available_from"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"available_from":"2025-09-01"}`), &payload))
	require.NotNil(t, payload.Available)
	assert.Equal(t, models.NewDate(2025, time.September, 1), *payload.Available)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"available_from":"2025-09-01"}`, string(raw))

	require.NoError(t, json.Unmarshal([]byte(`{"available_from":"2025-09-01T23:30:00+01:00"}`), &payload))
	assert.Equal(t, "2025-09-01", payload.Available.String())

	assert.Error(t, json.Unmarshal([]byte(`{"available_from":"01/09/2025"}`), &payload))
	assert.Error(t, json.Unmarshal([]byte(`{"available_from":20250901}`), &payload))
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  models.Date
	}{
		{"Time", time.Date(2024, time.February, 1, 15, 4, 5, 0, time.UTC), models.NewDate(2024, time.February, 1)},
		{"String", "2024-02-15", models.NewDate(2024, time.February, 15)},
		{"Timestamp", []byte("2024-01-20 00:00:00+00:00"), models.NewDate(2024, time.January, 20)},
		{"Nil", nil, models.Date{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d models.Date
			require.NoError(t, d.Scan(tt.value))
			assert.Equal(t, tt.want, d)
		})
	}

	var d models.Date
	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("yesterday"))
}

func TestDate_Value(t *testing.T) {
	v, err := models.NewDate(2025, time.December, 31).Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", v)
}
