package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/startuplens/startuplens/application/service"
	"github.com/startuplens/startuplens/domain/query"
)

// QueryRequest is the POST /query request body.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the uniform response body for query endpoints.
// Failures are carried in the error field with HTTP 200: callers
// distinguish outcomes by inspecting the body, never the status code.
// The error field is always present, null on success.
type QueryResponse struct {
	Question   string           `json:"question"`
	SQL        string           `json:"sql"`
	CompanyIDs []int64          `json:"company_ids"`
	Rows       []map[string]any `json:"rows,omitempty"`
	Error      *string          `json:"error"`
}

// TrainResponse is the POST /train response body.
type TrainResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	TrainingItems int64  `json:"training_items"`
}

// StatusResponse is the GET /training-status response body.
type StatusResponse struct {
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
	TrainingItems   int64  `json:"training_items"`
	HasTrainingData bool   `json:"has_training_data"`
}

// QueryRouter handles the query service endpoints.
type QueryRouter struct {
	queries *service.QueryService
	trainer *service.Trainer
	logger  *slog.Logger
}

// NewQueryRouter creates a new QueryRouter.
func NewQueryRouter(queries *service.QueryService, trainer *service.Trainer, logger *slog.Logger) *QueryRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryRouter{
		queries: queries,
		trainer: trainer,
		logger:  logger,
	}
}

// Routes returns the chi router for the query endpoints.
func (r *QueryRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/query", r.Query)
	router.Post("/train", r.Train)
	router.Get("/training-status", r.TrainingStatus)
	router.Get("/test", r.Test)

	return router
}

// Query handles POST /query.
func (r *QueryRouter) Query(w http.ResponseWriter, req *http.Request) {
	var body QueryRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		r.writeJSON(w, toQueryResponse(query.NewErrorResponse("", err)))
		return
	}
	if body.Question == "" {
		r.writeJSON(w, QueryResponse{CompanyIDs: []int64{}, Error: errorField("question is required")})
		return
	}

	resp := r.queries.Query(req.Context(), body.Question)
	r.writeJSON(w, toQueryResponse(resp))
}

// Train handles POST /train. A rebuild already in flight is reported
// in-band like every other failure.
func (r *QueryRouter) Train(w http.ResponseWriter, req *http.Request) {
	report, err := r.trainer.Rebuild(req.Context())
	if err != nil {
		r.writeJSON(w, TrainResponse{Status: "error", Message: err.Error()})
		return
	}
	r.writeJSON(w, TrainResponse{
		Status:        "success",
		Message:       "training complete",
		TrainingItems: report.ItemsTrained(),
	})
}

// TrainingStatus handles GET /training-status.
func (r *QueryRouter) TrainingStatus(w http.ResponseWriter, req *http.Request) {
	count, err := r.trainer.Status(req.Context())
	if err != nil {
		r.writeJSON(w, StatusResponse{Status: "error", Message: err.Error()})
		return
	}
	r.writeJSON(w, StatusResponse{
		Status:          "success",
		TrainingItems:   count,
		HasTrainingData: count > 0,
	})
}

// Test handles GET /test: a fixed end-to-end check of the live pipeline.
func (r *QueryRouter) Test(w http.ResponseWriter, req *http.Request) {
	resp := r.queries.SmokeTest(req.Context())
	r.writeJSON(w, toQueryResponse(resp))
}

func (r *QueryRouter) writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		r.logger.Error("failed to encode response", "error", err)
	}
}

func toQueryResponse(resp query.Response) QueryResponse {
	return QueryResponse{
		Question:   resp.Question(),
		SQL:        resp.SQL(),
		CompanyIDs: resp.CompanyIDs(),
		Rows:       resp.Rows(),
		Error:      errorField(resp.Err()),
	}
}

// errorField maps an empty error string to an explicit JSON null.
func errorField(msg string) *string {
	if msg == "" {
		return nil
	}
	return &msg
}
