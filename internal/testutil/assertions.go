package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/worldcup-stats/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	// Error responses are plain text in this API
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertSubjectNames verifies the radar subjects, in order
func AssertSubjectNames(t *testing.T, result engine.RadarResult, names ...string) {
	t.Helper()

	got := make([]string, len(result.Subjects))
	for i, s := range result.Subjects {
		got[i] = s.Name
	}
	assert.Equal(t, names, got, "unexpected radar subjects")
}

// AxisByKey returns the radar axis with key or fails the test
func AxisByKey(t *testing.T, result engine.RadarResult, key string) engine.RadarAxis {
	t.Helper()

	for _, axis := range result.Axes {
		if string(axis.Key) == key {
			return axis
		}
	}
	t.Fatalf("axis %s not found", key)
	return engine.RadarAxis{}
}

// AssertScoresInRange verifies every score on every axis lies in [0, FullMark]
func AssertScoresInRange(t *testing.T, result engine.RadarResult) {
	t.Helper()

	for _, axis := range result.Axes {
		for id, cell := range axis.Values {
			assert.GreaterOrEqual(t, cell.Score, 0.0, "axis %s subject %s", axis.Key, id)
			assert.LessOrEqual(t, cell.Score, axis.FullMark, "axis %s subject %s", axis.Key, id)
		}
	}
}
