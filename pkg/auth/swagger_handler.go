package auth

// SignInHandler godoc
// @Summary Sign the device in
// @Description Exchanges the configured passphrase for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{passphrase=string} true "Passphrase"
// @Success 200 {object} object{success=bool,data=object{token=string,token_type=string,expires_at=string}}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /auth/token [post]
func (a *Authenticator) SignInHandlerDoc() {}
