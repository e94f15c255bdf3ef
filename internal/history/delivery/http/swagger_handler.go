package http

// ListHistory godoc
// @Summary Activity history
// @Description Newest entries first
// @Tags History
// @Produce json
// @Param limit query int false "Maximum entries (default 50, max 500)"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/history [get]
func (h *HistoryHandler) ListHistoryDoc() {}
