package questions

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

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("", h.GetAll).Methods("GET")
	r.HandleFunc("/csv", h.Export).Methods("GET")
	r.HandleFunc("/csv", h.Preview).Methods("POST")
	r.HandleFunc("/{id}", h.GetByID).Methods("GET")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// Create accepts a JSON body (single question or array) or a multipart
// upload with a CSV file under the "file" field.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payloads, err := h.readPayloads(r)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}

	created, err := h.service.CreateQuestions(r.Context(), payloads)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusCreated, map[string]interface{}{
		"message":   "Questions created successfully",
		"questions": created,
	})
}

func (h *Handler) readPayloads(r *http.Request) ([]models.QuestionPayload, error) {
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
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		var payloads []models.QuestionPayload
		if err := json.Unmarshal(raw, &payloads); err != nil {
			return nil, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid question list"}})
		}
		return payloads, nil
	}
	var p models.QuestionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid question"}})
	}
	return []models.QuestionPayload{p}, nil
}

func filterFromQuery(r *http.Request) models.QuestionFilter {
	return models.QuestionFilter{
		Difficulty: models.DifficultyLevel(strings.ToUpper(r.URL.Query().Get("difficulty"))),
		Type:       models.QuestionType(strings.ToLower(r.URL.Query().Get("type"))),
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetAllQuestions(r.Context(), filterFromQuery(r), pagination.FromQuery(r.URL.Query()))
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message":   "Questions fetched successfully",
		"questions": result,
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="questions.csv"`)
	if err := h.service.ExportCSV(r.Context(), filterFromQuery(r), pagination.FromQuery(r.URL.Query()), w); err != nil {
		h.logger.Error("export questions", zap.Error(err))
	}
}

// Preview parses an uploaded CSV and echoes the payloads back without
// validating references or writing anything, so authors can check a
// file before committing it.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "file", Message: "a CSV file is required"}}))
		return
	}
	defer file.Close()

	payloads, err := h.service.ParseCSV(file)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message":   "CSV parsed successfully",
		"questions": payloads,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.GetQuestionByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message":  "Question fetched successfully",
		"question": q,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var upd models.QuestionUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		api.WriteError(w, h.logger, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "invalid JSON body"}}))
		return
	}

	q, err := h.service.UpdateQuestion(r.Context(), mux.Vars(r)["id"], upd)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message":  "Question updated successfully",
		"question": q,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteQuestion(r.Context(), mux.Vars(r)["id"]); err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Question deleted successfully",
	})
}
