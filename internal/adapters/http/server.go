package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"lostfound/internal/logger"
	"lostfound/internal/ports"
	"lostfound/internal/services/claims"
	"lostfound/internal/services/items"
	"lostfound/internal/version"
)

// Server maps the HTTP surface onto the service ports.
type Server struct {
	claims ports.Claims
	items  ports.Items
	store  ports.DocumentStore
}

func New(claimSvc ports.Claims, itemSvc ports.Items, store ports.DocumentStore) *Server {
	return &Server{claims: claimSvc, items: itemSvc, store: store}
}

// Routes returns the router with permissive CORS; the admin frontend is served
// from another origin and preflights every POST.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.home)
	r.Get("/api/test", s.testConnection)
	r.Get("/api/items", s.listItems)
	r.Post("/api/report-item", s.reportItem)
	r.Post("/api/claim-item", s.claimItem)
	r.Post("/api/approve-claim", s.approveClaim)
	r.Post("/api/reject-claim", s.rejectClaim)
	return r
}

// requestLogger stores a request-scoped logger in the context.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := logger.L.With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), l)))
	})
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Lost & Found API Server"))
}

func (s *Server) testConnection(w http.ResponseWriter, r *http.Request) {
	database := "Connected"
	if err := s.store.Ping(r.Context()); err != nil {
		database = "Disconnected"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"message":   "Connection to server established successfully!",
		"database":  database,
		"version":   version.Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	records, err := s.items.ListOpen(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) reportItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemType string `json:"itemType"`
		ItemName string `json:"itemName"`
		Date     string `json:"date"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	itemID, err := s.items.Report(r.Context(), ports.ReportItem{
		ItemType: req.ItemType,
		ItemName: req.ItemName,
		Date:     req.Date,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Item reported successfully",
		"itemId":  itemID,
	})
}

func (s *Server) claimItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemType         string `json:"itemType"`
		ItemID           string `json:"itemId"`
		ClaimDescription string `json:"claimDescription"`
		ClaimantName     string `json:"claimantName"`
		ClaimantEmail    string `json:"claimantEmail"`
		ClaimantPhone    string `json:"claimantPhone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claimID, err := s.claims.Submit(r.Context(), ports.SubmitClaim{
		ItemType:    req.ItemType,
		ItemID:      req.ItemID,
		Description: req.ClaimDescription,
		Name:        req.ClaimantName,
		Email:       req.ClaimantEmail,
		Phone:       req.ClaimantPhone,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Claim submitted successfully",
		"claimId": claimID,
	})
}

func (s *Server) approveClaim(w http.ResponseWriter, r *http.Request) {
	claimID, ok := decodeClaimID(w, r)
	if !ok {
		return
	}
	if err := s.claims.Approve(r.Context(), claimID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Claim approved successfully. Emails will be sent in the background.",
		"status":  "Approved",
	})
}

func (s *Server) rejectClaim(w http.ResponseWriter, r *http.Request) {
	claimID, ok := decodeClaimID(w, r)
	if !ok {
		return
	}
	if err := s.claims.Reject(r.Context(), claimID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Claim rejected successfully",
		"status":  "Rejected",
	})
}

func decodeClaimID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		ClaimID string `json:"claimId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	return req.ClaimID, true
}

// writeServiceError maps service errors onto the API's status codes:
// validation 400, missing records 404, anything reaching the store 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, claims.ErrMissingClaimID),
		errors.Is(err, claims.ErrMissingItemRef),
		errors.Is(err, items.ErrInvalidItemType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, claims.ErrClaimNotFound),
		errors.Is(err, claims.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
