package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/core/service"
)

type HTTPHandler struct {
	vending *service.VendingService
	log     logrus.FieldLogger
}

type MoneyHTTPRequest struct {
	Amount json.RawMessage `json:"amount"`
}

type PurchaseHTTPRequest struct {
	Item     string          `json:"item"`
	Quantity json.RawMessage `json:"quantity"`
}

type InventoryHTTPResponse struct {
	Items []domain.Item `json:"items"`
}

type BalanceHTTPResponse struct {
	Balance string `json:"balance"`
}

type RefundHTTPResponse struct {
	Refunded string `json:"refunded"`
}

type ErrorHTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewHTTPHandler(vending *service.VendingService, log logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{vending: vending, log: log}
}

// Router mounts the API routes.
func (h *HTTPHandler) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/inventory", h.Inventory).Methods(http.MethodGet)
	api.HandleFunc("/balance", h.Balance).Methods(http.MethodGet)
	api.HandleFunc("/money", h.InsertMoney).Methods(http.MethodPost)
	api.HandleFunc("/purchase", h.Purchase).Methods(http.MethodPost)
	api.HandleFunc("/refund", h.Refund).Methods(http.MethodPost)

	return h.logMiddleware(r)
}

func (h *HTTPHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InventoryHTTPResponse{Items: h.vending.Inventory(r.Context())})
}

func (h *HTTPHandler) Balance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, BalanceHTTPResponse{
		Balance: h.vending.Balance(r.Context()).StringFixed(2),
	})
}

// InsertMoney accepts the amount as a JSON number or free text such as "$2.50".
func (h *HTTPHandler) InsertMoney(w http.ResponseWriter, r *http.Request) {
	var req MoneyHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid request body"})
		return
	}
	writeJSON(w, http.StatusOK, h.vending.InsertMoney(r.Context(), rawText(req.Amount)))
}

// Purchase accepts the quantity as a JSON number or string; anything unreadable buys one unit.
func (h *HTTPHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid request body"})
		return
	}
	writeJSON(w, http.StatusOK, h.vending.Purchase(r.Context(), req.Item, rawText(req.Quantity)))
}

func (h *HTTPHandler) Refund(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RefundHTTPResponse{
		Refunded: h.vending.Refund(r.Context()).StringFixed(2),
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"url":      r.URL.String(),
			"duration": time.Since(start).String(),
		}).Debug("handled request")
	})
}

// rawText unwraps a JSON string and passes any other value through as its literal text.
func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
