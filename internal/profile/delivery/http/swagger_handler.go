package http

// GetProfile godoc
// @Summary Get the profile
// @Tags Profile
// @Produce json
// @Success 200 {object} object{success=bool,data=object{name=string,age=string,allergies=[]string,priority=string}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/profile [get]
func (h *ProfileHandler) GetProfileDoc() {}

// SaveProfile godoc
// @Summary Save the profile
// @Description Onboarding or settings. Name, age, at least one allergy and a priority (minimize or products) are required.
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,age=string,allergies=[]string,priority=string} true "Profile"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/profile [put]
func (h *ProfileHandler) SaveProfileDoc() {}

// Logout godoc
// @Summary Log out
// @Description Clear the profile. The family list and the cart are kept.
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Router /api/profile [delete]
func (h *ProfileHandler) LogoutDoc() {}

// ListFamily godoc
// @Summary List family members
// @Tags Family
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/family [get]
func (h *ProfileHandler) ListFamilyDoc() {}

// AddFamilyMember godoc
// @Summary Add a family member
// @Tags Family
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,age=string,allergies=[]string} true "Member"
// @Success 201 {object} object{success=bool,message=string,data=array}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/family [post]
func (h *ProfileHandler) AddFamilyMemberDoc() {}

// RemoveFamilyMember godoc
// @Summary Remove a family member
// @Description Allergies already merged into the profile are kept
// @Tags Family
// @Security BearerAuth
// @Produce json
// @Param index path int true "Member index"
// @Success 200 {object} object{success=bool,message=string,data=array}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/family/{index} [delete]
func (h *ProfileHandler) RemoveFamilyMemberDoc() {}

// SaveFamily godoc
// @Summary Save the family profile
// @Description Merge every member's allergies into the profile
// @Tags Family
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{members=array} false "Replacement family list"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/family/save [post]
func (h *ProfileHandler) SaveFamilyDoc() {}
