package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/nkcin/restaurant-management-system/app/models"
	"github.com/nkcin/restaurant-management-system/app/store"
)

// Server hosts the dashboard REST surface: store-backed entity reads, order
// entry, the sync trigger, and the mobile connection QR endpoint.
type Server struct {
	store          *store.Store
	backendBaseURL string
	wsURL          string
	httpClient     *http.Client
}

// New creates a dashboard API server. backendBaseURL is the remote service
// the sync trigger forwards to; wsURL is what the connection QR encodes.
func New(st *store.Store, backendBaseURL, wsURL string) *Server {
	return &Server{
		store:          st,
		backendBaseURL: strings.TrimRight(backendBaseURL, "/"),
		wsURL:          wsURL,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Router builds the chi handler tree
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/dishes", s.handleDishes)
	r.Get("/api/ingredients", s.handleIngredients)
	r.Get("/api/ingredients/low-stock", s.handleLowStock)
	r.Get("/api/orders", s.handleOrders)
	r.Post("/api/orders", s.handleCreateOrder)
	r.Get("/api/sales/daily", s.handleDailySales)
	r.Get("/api/predictions", s.handlePredictions)
	r.Post("/api/predictions/generate", s.handleGeneratePredictions)
	r.Get("/api/sync", s.handleSyncHealth)
	r.Post("/api/sync", s.handleSyncTrigger)
	r.Get("/api/connect/qr", s.handleConnectQR)

	return r
}

// Start runs the HTTP server on addr
func (s *Server) Start(addr string) error {
	log.Printf("Dashboard API server starting on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]any{"status": "ok"})
}

// handleStatus reports the store's observable state: busy flag, last error,
// last sync, collection sizes and the low-stock count.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]any{
		"isLoading":     s.store.IsLoading(),
		"error":         s.store.LastError(),
		"lastSync":      s.store.LastSync(),
		"dishCount":     len(s.store.Dishes()),
		"ingredients":   len(s.store.Ingredients()),
		"orders":        len(s.store.Orders()),
		"lowStockCount": len(s.store.LowStockIngredients()),
	})
}

func (s *Server) handleDishes(w http.ResponseWriter, r *http.Request) {
	s.store.LoadDishes(r.Context())
	dishes := s.store.Dishes()
	if errMsg := s.store.LastError(); errMsg != "" && len(dishes) == 0 {
		writeError(w, http.StatusServiceUnavailable, errMsg)
		return
	}
	writeSuccess(w, dishes)
}

func (s *Server) handleIngredients(w http.ResponseWriter, r *http.Request) {
	s.store.LoadIngredients(r.Context())
	ingredients := s.store.Ingredients()
	if errMsg := s.store.LastError(); errMsg != "" && len(ingredients) == 0 {
		writeError(w, http.StatusServiceUnavailable, errMsg)
		return
	}
	writeSuccess(w, ingredients)
}

func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.store.LowStockIngredients())
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")
	s.store.LoadOrders(r.Context(), startDate, endDate)
	orders := s.store.Orders()
	if errMsg := s.store.LastError(); errMsg != "" && len(orders) == 0 {
		writeError(w, http.StatusServiceUnavailable, errMsg)
		return
	}
	writeSuccess(w, orders)
}

// handleCreateOrder registers an order. The stored order is the backend's
// confirmed copy; completed orders additionally consume recipe ingredients,
// with low-stock warnings reported but never blocking.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid order payload: %v", err))
		return
	}

	created, err := s.store.CreateOrder(r.Context(), order)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	var warnings []string
	if created.Status == models.OrderStatusCompleted {
		warnings = s.store.ConsumeIngredientsForOrder(r.Context(), created)
	}

	body := map[string]any{
		"success": true,
		"data":    created,
	}
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}
	writeJSON(w, http.StatusCreated, body)
}

// handleDailySales answers from the backend when it can, and falls back to
// aggregating the in-memory orders for the requested day when it cannot.
func (s *Server) handleDailySales(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if sales, ok := s.store.DailySales(r.Context(), date); ok {
		writeSuccess(w, sales)
		return
	}
	writeSuccess(w, s.store.SalesByPeriod(date))
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	s.store.LoadPredictions(r.Context(), date)
	predictions := s.store.Predictions()
	if errMsg := s.store.LastError(); errMsg != "" && len(predictions) == 0 {
		writeError(w, http.StatusServiceUnavailable, errMsg)
		return
	}
	writeSuccess(w, predictions)
}

func (s *Server) handleGeneratePredictions(w http.ResponseWriter, r *http.Request) {
	payload, err := s.store.GeneratePredictions(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeSuccess(w, payload)
}

// handleConnectQR returns a PNG QR code of the websocket URL so mobile
// clients can pair by scanning.
func (s *Server) handleConnectQR(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(s.wsURL, qrcode.Medium, 256)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("could not generate QR code: %v", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		log.Printf("Failed to write QR response: %v", err)
	}
}
