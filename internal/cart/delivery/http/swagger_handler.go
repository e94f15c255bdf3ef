package http

// ListCart godoc
// @Summary List the cart
// @Description Items in insertion order with their safety status (unsafe, safe or unverified)
// @Tags Cart
// @Produce json
// @Success 200 {object} object{success=bool,data=object{items=array,total=int,unsafe=int,unverified=int}}
// @Router /api/cart [get]
func (h *CartHandler) ListCartDoc() {}

// AddToCart godoc
// @Summary Add a product to the cart
// @Description Adding a barcode already in the cart changes nothing
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{barcode=string,name=string,image=string,allergens=[]string,checked=bool} true "Item"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/cart [post]
func (h *CartHandler) AddToCartDoc() {}

// ClearCart godoc
// @Summary Clear the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Router /api/cart [delete]
func (h *CartHandler) ClearCartDoc() {}

// UpdateCartItem godoc
// @Summary Update a cart item
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param barcode path string true "Barcode"
// @Param request body object{name=string,image=string,allergens=[]string} true "Fields to merge"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/cart/{barcode} [patch]
func (h *CartHandler) UpdateCartItemDoc() {}

// RemoveFromCart godoc
// @Summary Remove a product from the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param barcode path string true "Barcode"
// @Success 200 {object} object{success=bool,message=string,data=object{removed=int}}
// @Router /api/cart/{barcode} [delete]
func (h *CartHandler) RemoveFromCartDoc() {}
