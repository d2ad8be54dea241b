package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storage-valuation/internal/api/models"
	"storage-valuation/internal/config"
	"storage-valuation/internal/model"
	"storage-valuation/internal/policy"
	"storage-valuation/internal/recorder"
	"storage-valuation/internal/valuation"
)

// ValuationHandler handles valuation requests.
type ValuationHandler struct {
	rec recorder.Recorder
	log zerolog.Logger
}

func NewValuationHandler(rec recorder.Recorder, log zerolog.Logger) *ValuationHandler {
	if rec == nil {
		rec = recorder.Noop{}
	}
	return &ValuationHandler{rec: rec, log: log}
}

// RunValuation handles POST /api/v1/valuation
func (h *ValuationHandler) RunValuation(c *gin.Context) {
	var req models.ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	resp, errResp, status := h.runOne(c, req)
	if errResp != nil {
		c.JSON(status, *errResp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompareValuations handles POST /api/v1/valuation/compare
func (h *ValuationHandler) CompareValuations(c *gin.Context) {
	var req models.CompareValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	for _, v := range req.Variations {
		merged := req.Base
		merged.Contract = config.MergeContract(merged.Contract, v.Contract)
		if v.Policy.Name != "" {
			merged.Policy = v.Policy
		}

		resp, errResp, _ := h.runOne(c, merged)
		if errResp != nil {
			comparison = append(comparison, models.ComparisonResult{
				Name:  v.Name,
				Error: errResp.Error.Message,
			})
			continue
		}
		comparison = append(comparison, models.ComparisonResult{
			Name:   v.Name,
			Result: resp.Result,
		})
	}

	c.JSON(http.StatusOK, models.CompareValuationResponse{Comparison: comparison})
}

// ListPolicies handles GET /api/v1/policies
func (h *ValuationHandler) ListPolicies(c *gin.Context) {
	policies := []models.PolicyInfo{
		{
			Name:        "optimal",
			Description: "Backward-induction dynamic program over a discretized inventory grid. The reference policy.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "grid_steps",
					Type:        "int",
					Description: "Inventory grid resolution between 0 and capacity. Higher is more accurate and slower.",
					Default:     100,
				},
			},
		},
		{
			Name:        "threshold",
			Description: "Median-price heuristic: inject below the path median, withdraw above. A fast intrinsic lower bound.",
		},
	}
	c.JSON(http.StatusOK, gin.H{"policies": policies})
}

func (h *ValuationHandler) runOne(c *gin.Context, req models.ValuationRequest) (*models.ValuationResponse, *models.ErrorResponse, int) {
	cfg, err := h.buildConfig(req)
	if err != nil {
		return nil, &models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_CONFIG", Message: err.Error()},
		}, http.StatusBadRequest
	}

	pol, err := policy.Build(cfg.Policy.Name, cfg.Policy.Params, cfg.Simulation.DiscountRate)
	if err != nil {
		return nil, &models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_POLICY", Message: err.Error()},
		}, http.StatusBadRequest
	}

	opts := []valuation.Option{valuation.WithLogger(h.log)}
	if req.Options.IncludeDistribution {
		opts = append(opts, valuation.WithDistribution())
	}
	if req.Options.Workers > 0 {
		opts = append(opts, valuation.WithWorkers(req.Options.Workers))
	}

	engine, err := valuation.New(cfg.Contract.ToModel(), cfg.Simulation.ToModel(), pol, opts...)
	if err != nil {
		return nil, errorResponseFor(err), statusFor(err)
	}

	start := time.Now()
	result, err := engine.Run(c.Request.Context())
	if err != nil {
		return nil, errorResponseFor(err), statusFor(err)
	}
	elapsed := time.Since(start).Milliseconds()

	if err := h.rec.RecordRun(recorder.RunRecord{
		ContractName: cfg.Contract.Name,
		Result:       result,
		ElapsedMS:    elapsed,
	}); err != nil {
		h.log.Warn().Err(err).Msg("record run")
	}

	return &models.ValuationResponse{
		ContractName: cfg.Contract.Name,
		Result:       result,
		ElapsedMS:    elapsed,
	}, nil, 0
}

func (h *ValuationHandler) buildConfig(req models.ValuationRequest) (*config.Config, error) {
	cfg := &config.Config{
		Contract:   req.Contract,
		Simulation: req.Simulation,
		Policy:     req.Policy,
	}

	if req.ContractFile != "" {
		path := filepath.Join(contractDir(), req.ContractFile+".yaml")
		loaded, err := config.LoadUnchecked(path)
		if err == nil {
			cfg.Contract = config.MergeContract(loaded.Contract, cfg.Contract)
		} else {
			h.log.Warn().Err(err).Str("path", path).Msg("load contract file")
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func contractDir() string {
	if dir := os.Getenv("CONTRACT_DIR"); dir != "" {
		return dir
	}
	return filepath.Join("examples", "contracts")
}

func errorResponseFor(err error) *models.ErrorResponse {
	code := "VALUATION_ERROR"
	var cfgErr *model.ConfigurationError
	var infErr *model.InfeasibleContractError
	switch {
	case errors.As(err, &cfgErr):
		code = "INVALID_CONFIG"
	case errors.As(err, &infErr):
		code = "INFEASIBLE_CONTRACT"
	}
	return &models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error()},
	}
}

func statusFor(err error) int {
	var cfgErr *model.ConfigurationError
	var infErr *model.InfeasibleContractError
	if errors.As(err, &cfgErr) || errors.As(err, &infErr) {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
