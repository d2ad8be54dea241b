package handlers

import (
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storage-valuation/internal/api/models"
	"storage-valuation/internal/config"
)

// ContractsHandler lists the example contract files available on the server.
type ContractsHandler struct {
	log zerolog.Logger
}

func NewContractsHandler(log zerolog.Logger) *ContractsHandler {
	return &ContractsHandler{log: log}
}

// ListContracts handles GET /api/v1/contracts
func (h *ContractsHandler) ListContracts(c *gin.Context) {
	dir := contractDir()
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "CONTRACT_DIR_ERROR", Message: err.Error()},
		})
		return
	}
	sort.Strings(paths)

	contracts := make([]models.ContractInfo, 0, len(paths))
	for _, p := range paths {
		loaded, err := config.LoadUnchecked(p)
		if err != nil {
			h.log.Warn().Err(err).Str("path", p).Msg("skip unreadable contract file")
			continue
		}
		contracts = append(contracts, models.ContractInfo{
			File:     strings.TrimSuffix(filepath.Base(p), ".yaml"),
			Name:     loaded.Contract.Name,
			Capacity: loaded.Contract.Capacity,
		})
	}

	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}
