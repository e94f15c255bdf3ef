package http

// ScanProduct godoc
// @Summary Scan a product
// @Description Look a barcode up (one attempt plus two retries, one second apart) and flag the profile's allergens in it
// @Tags Products
// @Produce json
// @Param barcode path string true "Barcode"
// @Param screen query string false "Screen ID; one lookup may be in flight per screen"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Failure 410 {object} object{success=bool,error=string}
// @Failure 502 {object} object{success=bool,error=string,data=object}
// @Router /api/products/{barcode} [get]
func (h *ProductHandler) ScanProductDoc() {}

// RetryProduct godoc
// @Summary Try a lookup again
// @Description Cancel any running lookup for the screen and start a fresh attempt sequence
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param barcode path string true "Barcode"
// @Param screen query string false "Screen ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string,data=object}
// @Router /api/products/{barcode}/retry [post]
func (h *ProductHandler) RetryProductDoc() {}

// CloseScreen godoc
// @Summary Close a screen
// @Description Discard any lookup result that arrives for the screen after this call
// @Tags Products
// @Produce json
// @Param screen path string true "Screen ID"
// @Success 200 {object} object{success=bool,message=string}
// @Router /api/screens/{screen} [delete]
func (h *ProductHandler) CloseScreenDoc() {}

// ListAllergens godoc
// @Summary List allergens
// @Description Canonical allergens and their synonyms
// @Tags Allergens
// @Produce json
// @Success 200 {object} object{success=bool,data=object{allergens=array}}
// @Router /api/allergens [get]
func (h *ProductHandler) ListAllergensDoc() {}

// DetectAllergens godoc
// @Summary Detect allergens in text
// @Description Substring match of an allergen list against ingredient text
// @Tags Allergens
// @Accept json
// @Produce json
// @Param request body object{text=string,allergens=[]string,use_synonyms=bool} true "Text and allergens"
// @Success 200 {object} object{success=bool,data=object{detected=[]string}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/allergens/detect [post]
func (h *ProductHandler) DetectAllergensDoc() {}
