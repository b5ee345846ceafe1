// Package httpapi exposes the invoice REST API.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/tutorbill/invoice-service/internal/errors"

	app "github.com/tutorbill/invoice-service/internal/app"
	"github.com/tutorbill/invoice-service/internal/app/domain/invoice"
	"github.com/tutorbill/invoice-service/internal/app/services/invoices"
	"github.com/tutorbill/invoice-service/pkg/logger"
)

// handler bundles the HTTP endpoints for the application services.
type handler struct {
	app *app.Application
	log *logger.Logger
}

// NewHandler returns the router exposing the invoice REST API.
func NewHandler(application *app.Application, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{app: application, log: log}

	r := mux.NewRouter()
	r.Use(metricsMiddleware)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", h.register).Methods(http.MethodPost)
	api.HandleFunc("/login", h.login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware(application.Auth))
	protected.HandleFunc("/invoices", h.listInvoices).Methods(http.MethodGet)
	protected.HandleFunc("/invoice/create", h.createInvoice).Methods(http.MethodPost)
	protected.HandleFunc("/invoice/{id}", h.getInvoice).Methods(http.MethodGet)
	protected.HandleFunc("/invoice/{id}", h.updateInvoice).Methods(http.MethodPut)
	protected.HandleFunc("/invoice/{id}", h.deleteInvoice).Methods(http.MethodDelete)

	// CORS wraps the router itself so preflight requests are answered even
	// when no route matches.
	return corsMiddleware(r)
}

// invoicePayload is the wire shape shared by create and update. Date is
// accepted for compatibility but ignored: the stored issue date is the
// processing time.
type invoicePayload struct {
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Address         string             `json:"address"`
	Date            string             `json:"date"`
	InvoiceID       string             `json:"invoiceId"`
	SelectedCourses []invoice.LineItem `json:"selectedCourses"`
	AmountPaid      int64              `json:"amountpaid"`
}

func (p invoicePayload) submission() invoices.Submission {
	return invoices.Submission{
		InvoiceID:  p.InvoiceID,
		Name:       p.Name,
		Email:      p.Email,
		Address:    p.Address,
		LineItems:  p.SelectedCourses,
		AmountPaid: p.AmountPaid,
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "invoice-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Registration failed"})
		return
	}

	stored, err := h.app.Auth.Register(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Registration failed"})
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}

	token, err := h.app.Auth.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindAuth {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		h.log.WithError(err).Error("login failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Invoices.List(r.Context())
	if err != nil {
		h.log.WithError(err).Error("list invoices failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var payload invoicePayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		h.respondInvoiceError(w, apperrors.Validation("invalid request body"))
		return
	}

	if _, err := h.app.Invoices.Create(r.Context(), payload.submission()); err != nil {
		h.respondInvoiceError(w, err)
		return
	}

	h.log.WithField("user", UsernameFromContext(r.Context())).Debug("invoice created")
	writeJSON(w, http.StatusOK, map[string]string{"status": "Created"})
}

func (h *handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	inv, err := h.app.Invoices.Get(r.Context(), id)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			writeJSON(w, http.StatusOK, map[string]string{"invoice": "Not found"})
			return
		}
		h.log.WithError(err).Error("get invoice failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]invoice.Invoice{"invoice": inv})
}

func (h *handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var payload invoicePayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		h.respondInvoiceError(w, apperrors.Validation("invalid request body"))
		return
	}

	if _, err := h.app.Invoices.Update(r.Context(), id, payload.submission()); err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"status": "Invoice not found"})
			return
		}
		h.respondInvoiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "Updated"})
}

func (h *handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.app.Invoices.Delete(r.Context(), id); err != nil {
		// A missing id still answers 200; clients key off the status text.
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			writeJSON(w, http.StatusOK, map[string]string{"status": "Something went wrong"})
			return
		}
		h.respondInvoiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "Deleted"})
}

// respondInvoiceError renders invoice-route failures uniformly: the status
// code comes from the error kind and the body never carries internal detail.
func (h *handler) respondInvoiceError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindStorage {
		h.log.WithError(err).Error("invoice operation failed")
	}
	writeJSON(w, apperrors.HTTPStatus(err), map[string]string{
		"status": "Something went wrong",
		"error":  string(kind),
	})
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
