package categories

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/pagination"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the catalog endpoints on r, which is expected
// to already be scoped to the categories prefix.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("", h.GetAll).Methods("GET")
	r.HandleFunc("/verify", h.Verify).Methods("POST")
	r.HandleFunc("/{id}", h.GetByID).Methods("GET")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// Create accepts either a JSON body (a single category or an array) or
// a multipart upload with a CSV file under the "file" field.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payloads, err := h.readPayloads(r)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}

	created, err := h.service.CreateCategories(r.Context(), payloads)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusCreated, map[string]interface{}{
		"message":    "Categories created successfully",
		"categories": created,
	})
}

func (h *Handler) readPayloads(r *http.Request) ([]models.CategoryPayload, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, api.ValidationError([]api.FieldIssue{{Field: "file", Message: "a CSV file is required"}})
		}
		defer file.Close()
		return h.service.ParseCSV(file)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}})
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var payloads []models.CategoryPayload
		if err := json.Unmarshal(raw, &payloads); err != nil {
			return nil, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid category list"}})
		}
		return payloads, nil
	}
	var p models.CategoryPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid category"}})
	}
	return []models.CategoryPayload{p}, nil
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromQuery(r.URL.Query())
	filter := models.CategoryFilter{
		Type: models.CategoryType(strings.ToLower(r.URL.Query().Get("type"))),
	}

	result, err := h.service.GetAllCategories(r.Context(), filter, params)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message":    "Categories fetched successfully",
		"categories": result,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCategoryByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message":  "Category fetched successfully",
		"category": c,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var upd models.CategoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}}))
		return
	}

	c, err := h.service.UpdateCategory(r.Context(), mux.Vars(r)["id"], upd)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message":  "Category updated successfully",
		"category": c,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Category deleted successfully",
	})
}

// Verify answers a one-shot existence check for a list of titles.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type   models.CategoryType `json:"type"`
		Titles []string            `json:"titles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}}))
		return
	}
	req.Type = models.CategoryType(strings.ToLower(strings.TrimSpace(string(req.Type))))
	if !models.ValidCategoryTypes[req.Type] {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{
			{Field: "type", Message: "type must be one of subjects, chapters, topics, tags, others"},
		}))
		return
	}

	exists, err := h.service.VerifyCategoriesExist(r.Context(), req.Type, req.Titles)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Categories verified",
		"exists":  exists,
	})
}
