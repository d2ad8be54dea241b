package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storage-valuation/internal/api/models"
	"storage-valuation/internal/config"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewValuationHandler(nil, zerolog.Nop())
	r := gin.New()
	r.POST("/api/v1/valuation", h.RunValuation)
	r.POST("/api/v1/valuation/compare", h.CompareValuations)
	r.GET("/api/v1/policies", h.ListPolicies)
	return r
}

func seedPtr(v int64) *int64 { return &v }

func validRequest() models.ValuationRequest {
	return models.ValuationRequest{
		Contract: config.ContractConfig{
			Name:              "test",
			Capacity:          100,
			MaxInjectionRate:  10,
			MaxWithdrawalRate: 10,
			InjectionCost:     0.01,
			WithdrawalCost:    0.01,
		},
		Simulation: config.SimulationConfig{
			NumPaths:          50,
			HorizonSteps:      10,
			RandomSeed:        seedPtr(42),
			Volatility:        0.1,
			MeanReversionRate: 0.1,
			LongRunPrice:      3.5,
			DiscountRate:      0.0001,
			ConfidenceLevel:   0.95,
		},
	}
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRunValuationEndpoint(t *testing.T) {
	r := testRouter()
	w := postJSON(t, r, "/api/v1/valuation", validRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ValuationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, "test", resp.ContractName)
	assert.Equal(t, 50, resp.Result.NumPaths)
	assert.Equal(t, "optimal", resp.Result.Policy)
	assert.GreaterOrEqual(t, resp.Result.MeanValue, 0.0)
}

func TestRunValuationRejectsBadConfig(t *testing.T) {
	r := testRouter()
	req := validRequest()
	req.Simulation.NumPaths = 0

	w := postJSON(t, r, "/api/v1/valuation", req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CONFIG", resp.Error.Code)
}

func TestCompareValuationsEndpoint(t *testing.T) {
	r := testRouter()
	req := models.CompareValuationRequest{
		Base: validRequest(),
		Variations: []models.ValuationVariation{
			{Name: "base"},
			{
				Name:     "bigger",
				Contract: config.ContractConfig{Capacity: 200, MaxInjectionRate: 20, MaxWithdrawalRate: 20},
				Policy:   config.PolicyConfig{Name: "optimal", Params: map[string]any{"grid_steps": 200}},
			},
			{Name: "threshold", Policy: config.PolicyConfig{Name: "threshold"}},
		},
	}

	w := postJSON(t, r, "/api/v1/valuation/compare", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CompareValuationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Comparison, 3)
	for _, c := range resp.Comparison {
		assert.Empty(t, c.Error, c.Name)
		require.NotNil(t, c.Result, c.Name)
	}
	// Same seed, same paths: more capacity and rate never values lower.
	assert.GreaterOrEqual(t, resp.Comparison[1].Result.MeanValue, resp.Comparison[0].Result.MeanValue)
	// The heuristic cannot beat the optimizer.
	assert.LessOrEqual(t, resp.Comparison[2].Result.MeanValue, resp.Comparison[0].Result.MeanValue+1e-9)
}

func TestListPoliciesEndpoint(t *testing.T) {
	r := testRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/policies", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Policies []models.PolicyInfo `json:"policies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Policies, 2)
	assert.Equal(t, "optimal", resp.Policies[0].Name)
}
