package health

// Handle godoc
// @Summary Health check
// @Description Checks the state backend, the product API and the cache. Degraded still answers 200.
// @Tags Health
// @Produce json
// @Success 200 {object} Report
// @Failure 503 {object} Report
// @Router /health [get]
func (h *Checker) HandleDoc() {}
