package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/middleware"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the linking endpoints on r, which is expected
// to be auth-protected and scoped to the accounts prefix.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("/unlink", h.Unlink).Methods("GET")
	r.HandleFunc("/{provider}", h.Begin).Methods("GET")
	r.HandleFunc("/{provider}/callback", h.Callback).Methods("GET")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}
	accounts, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message":  "Accounts fetched successfully",
		"accounts": accounts,
	})
}

func (h *Handler) Begin(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}

	url, err := h.service.BeginLink(r.Context(), user, models.Provider(mux.Vars(r)["provider"]))
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "code", Message: "code is required"}}))
		return
	}

	account, err := h.service.CompleteLink(r.Context(), user, models.Provider(mux.Vars(r)["provider"]), code)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Account linked successfully",
		"account": account,
	})
}

func (h *Handler) Unlink(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, h.logger, api.ErrSessionInvalidated)
		return
	}

	if err := h.service.Unlink(r.Context(), user, models.Provider(r.URL.Query().Get("provider"))); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Account unlinked successfully",
	})
}
