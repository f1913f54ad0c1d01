package users

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/auth"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/middleware"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

type Handler struct {
	service *Service
	cookies auth.CookieSettings
	logger  *zap.Logger
}

func NewHandler(service *Service, cookies auth.CookieSettings, logger *zap.Logger) *Handler {
	return &Handler{service: service, cookies: cookies, logger: logger}
}

// RegisterRoutes mounts the account endpoints. Register, login and
// activate work without a session; everything else requires one.
func (h *Handler) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/register", h.Register).Methods("POST")
	public.HandleFunc("/login", h.Login).Methods("POST")
	public.HandleFunc("/activate", h.Activate).Methods("POST")
	public.HandleFunc("/logout", h.Logout).Methods("POST")

	protected.HandleFunc("/verify", h.Verify).Methods("POST")
	protected.HandleFunc("/deactivate", h.Deactivate).Methods("POST")
	protected.HandleFunc("/update", h.Update).Methods("PUT")
	protected.HandleFunc("/change-image", h.ChangeImage).Methods("PUT")
	protected.HandleFunc("/profile", h.Profile).Methods("GET")
	protected.HandleFunc("/profile/update", h.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/preferences", h.Preferences).Methods("GET")
	protected.HandleFunc("/preferences/update", h.UpdatePreferences).Methods("PUT")
	protected.HandleFunc("/email", h.GetByEmail).Methods("POST")
	protected.HandleFunc("/{userId}", h.GetByID).Methods("GET")
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}}))
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}}))
		return
	}

	user, token, sessionID, err := h.service.Login(r.Context(), req)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}

	auth.SetAuthCookies(w, h.cookies, token, sessionID)
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Logged in successfully",
		"user":    user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionIDCookie); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("delete session on logout", zap.Error(err))
		}
	}
	auth.ClearAuthCookies(w, h.cookies)
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Logged out successfully",
	})
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}}))
		return
	}

	user, err := h.service.Activate(r.Context(), req)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Account activated successfully",
		"user":    user,
	})
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}
	if err := h.service.Verify(r.Context(), user.ID); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "User verified successfully",
	})
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}
	sessionID := ""
	if cookie, err := r.Cookie(auth.SessionIDCookie); err == nil {
		sessionID = cookie.Value
	}
	if err := h.service.Deactivate(r.Context(), user.ID, sessionID); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	auth.ClearAuthCookies(w, h.cookies)
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Account deactivated successfully",
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}
	var upd models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}}))
		return
	}

	updated, err := h.service.Update(r.Context(), user.ID, upd)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    updated,
	})
}

func (h *Handler) ChangeImage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}
	var req struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}}))
		return
	}

	updated, err := h.service.ChangeImage(r.Context(), user.ID, req.ImageURL)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Image updated successfully",
		"user":    updated,
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}
	profile, err := h.service.Profile(r.Context(), user)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Profile fetched successfully",
		"profile": profile,
	})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}}))
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), user, fields)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}
	prefs, err := h.service.Preferences(r.Context(), user)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message":     "Preferences fetched successfully",
		"preferences": prefs,
	})
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}
	var req struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}}))
		return
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), user, req.Language)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message":     "Preferences updated successfully",
		"preferences": prefs,
	})
}

func (h *Handler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}}))
		return
	}

	user, err := h.service.GetByEmail(r.Context(), req.Email)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "User fetched successfully",
		"user":    user,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetByID(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "User fetched successfully",
		"user":    user,
	})
}
