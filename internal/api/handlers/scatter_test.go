package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/engine"
	"github.com/dom/worldcup-stats/internal/service"
	"github.com/dom/worldcup-stats/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScatterHandler_Points(t *testing.T) {
	ts := testutil.NewTestServer(t)

	req := service.ScatterRequest{
		Year: "2022",
		ScatterQuery: engine.ScatterQuery{
			Position: domain.PositionForward,
			XKey:     domain.KeyGoals,
			YKey:     domain.KeyAssists,
			Basis:    domain.BasisTotal,
		},
	}

	resp := postJSON(t, ts.APIURL("/scatter"), req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result engine.ScatterResult
	testutil.AssertJSONResponse(t, resp, &result)

	assert.Equal(t, domain.PositionForward, result.Position)
	assert.Equal(t, domain.KeyGoals, result.X.Key)
	assert.Equal(t, domain.KeyAssists, result.Y.Key)
	require.Len(t, result.Points, 2)

	byName := map[string]engine.ScatterPoint{}
	for _, p := range result.Points {
		byName[p.Name] = p
	}
	assert.Equal(t, 7.0, byName["Lionel Messi"].X)
	assert.Equal(t, 3.0, byName["Lionel Messi"].Y)
	assert.Equal(t, 8.0, byName["Kylian Mbappé"].X)

	require.NotNil(t, result.Correlation)
	assert.InDelta(t, -1.0, *result.Correlation, 0.001)
}

func TestScatterHandler_Points_AxisReconciled(t *testing.T) {
	ts := testutil.NewTestServer(t)

	// saves is not a defender axis; the first defender option is used instead
	req := service.ScatterRequest{
		Year: "2022",
		ScatterQuery: engine.ScatterQuery{
			Position: domain.PositionDefender,
			XKey:     domain.KeySaves,
			YKey:     domain.KeyClearances,
		},
	}

	resp := postJSON(t, ts.APIURL("/scatter"), req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result engine.ScatterResult
	testutil.AssertJSONResponse(t, resp, &result)
	assert.NotEqual(t, domain.KeySaves, result.X.Key)
	assert.Equal(t, domain.BasisPer90, result.Basis)
	for _, p := range result.Points {
		assert.Equal(t, domain.PositionDefender, p.Position)
	}
}

func TestScatterHandler_Points_MalformedBody(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := postJSON(t, ts.APIURL("/scatter"), []int{1, 2})
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
}
