package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/allergy-scan/internal/profile/domain"
	"github.com/tair/allergy-scan/internal/profile/usecase/command"
	"github.com/tair/allergy-scan/internal/profile/usecase/query"
	"github.com/tair/allergy-scan/pkg/httpx"
	"github.com/tair/allergy-scan/pkg/metrics"
)

// ProfileHandler handles HTTP requests for the profile and family list
type ProfileHandler struct {
	// Command handlers
	saveProfileHandler  *command.SaveProfileHandler
	addMemberHandler    *command.AddFamilyMemberHandler
	removeMemberHandler *command.RemoveFamilyMemberHandler
	saveFamilyHandler   *command.SaveFamilyHandler
	logoutHandler       *command.LogoutHandler

	// Query handlers
	getProfileHandler *query.GetProfileHandler
	listFamilyHandler *query.ListFamilyHandler
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(
	saveProfileHandler *command.SaveProfileHandler,
	addMemberHandler *command.AddFamilyMemberHandler,
	removeMemberHandler *command.RemoveFamilyMemberHandler,
	saveFamilyHandler *command.SaveFamilyHandler,
	logoutHandler *command.LogoutHandler,
	getProfileHandler *query.GetProfileHandler,
	listFamilyHandler *query.ListFamilyHandler,
) *ProfileHandler {
	return &ProfileHandler{
		saveProfileHandler:  saveProfileHandler,
		addMemberHandler:    addMemberHandler,
		removeMemberHandler: removeMemberHandler,
		saveFamilyHandler:   saveFamilyHandler,
		logoutHandler:       logoutHandler,
		getProfileHandler:   getProfileHandler,
		listFamilyHandler:   listFamilyHandler,
	}
}

// RegisterRoutes registers the profile routes. protect guards mutating routes.
func (h *ProfileHandler) RegisterRoutes(router *mux.Router, protect func(http.HandlerFunc) http.HandlerFunc) {
	router.HandleFunc("/api/profile", metrics.Instrument("/api/profile", h.GetProfile)).Methods("GET")
	router.HandleFunc("/api/profile", metrics.Instrument("/api/profile", protect(h.SaveProfile))).Methods("PUT")
	router.HandleFunc("/api/profile", metrics.Instrument("/api/profile", protect(h.Logout))).Methods("DELETE")

	router.HandleFunc("/api/family", metrics.Instrument("/api/family", h.ListFamily)).Methods("GET")
	router.HandleFunc("/api/family", metrics.Instrument("/api/family", protect(h.AddFamilyMember))).Methods("POST")
	router.HandleFunc("/api/family/save", metrics.Instrument("/api/family/save", protect(h.SaveFamily))).Methods("POST")
	router.HandleFunc("/api/family/{index:[0-9]+}", metrics.Instrument("/api/family/{index}", protect(h.RemoveFamilyMember))).Methods("DELETE")
}

type memberRequest struct {
	Name      string   `json:"name"`
	Age       string   `json:"age"`
	Allergies []string `json:"allergies"`
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.getProfileHandler.Handle()
	if err != nil {
		httpx.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	httpx.RespondData(w, http.StatusOK, "", profile)
}

// SaveProfile handles PUT /api/profile
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string   `json:"name"`
		Age       string   `json:"age"`
		Allergies []string `json:"allergies"`
		Priority  string   `json:"priority"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.saveProfileHandler.Handle(r.Context(), command.SaveProfileCommand{
		Name:      req.Name,
		Age:       req.Age,
		Allergies: req.Allergies,
		Priority:  domain.Priority(req.Priority),
	})
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	httpx.RespondData(w, http.StatusOK, "Profile Updated", profile)
}

// Logout handles DELETE /api/profile
func (h *ProfileHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.logoutHandler.Handle(r.Context())
	httpx.RespondData(w, http.StatusOK, "Logged out", nil)
}

// ListFamily handles GET /api/family
func (h *ProfileHandler) ListFamily(w http.ResponseWriter, r *http.Request) {
	httpx.RespondData(w, http.StatusOK, "", h.listFamilyHandler.Handle())
}

// AddFamilyMember handles POST /api/family
func (h *ProfileHandler) AddFamilyMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	family, err := h.addMemberHandler.Handle(r.Context(), command.AddFamilyMemberCommand{
		Name:      req.Name,
		Age:       req.Age,
		Allergies: req.Allergies,
	})
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	httpx.RespondData(w, http.StatusCreated, "Family Member Added", family)
}

// RemoveFamilyMember handles DELETE /api/family/{index}
func (h *ProfileHandler) RemoveFamilyMember(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "Invalid member index")
		return
	}

	family, err := h.removeMemberHandler.Handle(r.Context(), command.RemoveFamilyMemberCommand{Index: index})
	if errors.Is(err, command.ErrMemberNotFound) {
		httpx.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.RespondData(w, http.StatusOK, "Family Member Removed", family)
}

// SaveFamily handles POST /api/family/save. An optional members array
// replaces the family list before the merge.
func (h *ProfileHandler) SaveFamily(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Members *[]memberRequest `json:"members"`
	}
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	cmd := command.SaveFamilyCommand{}
	if req.Members != nil {
		members := make([]domain.FamilyMember, 0, len(*req.Members))
		for _, m := range *req.Members {
			members = append(members, domain.FamilyMember{Name: m.Name, Age: m.Age, Allergies: m.Allergies})
		}
		cmd.Members = &members
	}

	st, err := h.saveFamilyHandler.Handle(r.Context(), cmd)
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	httpx.RespondData(w, http.StatusOK, "Family profile saved", st)
}
