package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"balance_benchmark/internal/app/port"
	"balance_benchmark/internal/domain/entity"
	"balance_benchmark/internal/pkg/utils"
)

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Error string `json:"error"`
}

// ResultsHandler serves the outcome of a finished benchmark run.
type ResultsHandler struct {
	results port.ResultsReader
	report  entity.Report
}

// NewResultsHandler creates a ResultsHandler over the run's aggregator and final report.
func NewResultsHandler(results port.ResultsReader, report entity.Report) *ResultsHandler {
	return &ResultsHandler{results: results, report: report}
}

// GetStatistics returns the per-provider summaries, fastest first.
func (h *ResultsHandler) GetStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.results.ComputeStatistics())
}

// GetReport returns the run report.
func (h *ResultsHandler) GetReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.report)
}

// GetTimings returns raw timing samples in milliseconds, optionally for one provider.
func (h *ResultsHandler) GetTimings(c *gin.Context) {
	timings := h.results.Timings()
	provider := c.Query("provider")
	if provider == "" {
		c.JSON(http.StatusOK, timings)
		return
	}
	byChain, ok := timings[provider]
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown provider " + provider})
		return
	}
	c.JSON(http.StatusOK, byChain)
}

// GetBalances returns the recorded balances, optionally for one address.
// With scaled=true raw amounts are shifted by their decimals.
func (h *ResultsHandler) GetBalances(c *gin.Context) {
	balances := h.results.Balances()
	if c.Query("scaled") == "true" {
		if err := scaleBalances(balances); err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
	}
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusOK, balances)
		return
	}
	byChain, ok := balances[address]
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no balances recorded for " + address})
		return
	}
	c.JSON(http.StatusOK, byChain)
}

// scaleBalances rewrites amounts in place; the snapshot from Balances is a copy.
func scaleBalances(balances map[string]map[entity.ChainID]map[string]entity.BalanceResult) error {
	for _, byChain := range balances {
		for _, byProvider := range byChain {
			for provider, result := range byProvider {
				scaled := make([]entity.Balance, len(result.Result))
				for i, b := range result.Result {
					amount, err := utils.FormatAmount(b.Amount, b.Decimals)
					if err != nil {
						return err
					}
					b.Amount = amount
					scaled[i] = b
				}
				result.Result = scaled
				byProvider[provider] = result
			}
		}
	}
	return nil
}
