package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/ports/adapter"
	"tutoring-platform/internal/infra/logging"
	"tutoring-platform/internal/infra/metrics"
	"tutoring-platform/internal/usecase"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// observeReconcile records counters for one reconciliation outcome. Shared by
// the webhook and confirm paths.
func observeReconcile(outcome *usecase.ReconcileOutcome) {
	metrics.IncReconcile(string(outcome.Status))
	if outcome.Granted {
		metrics.IncGrant()
		metrics.AddPaymentRevenue(outcome.Currency, outcome.Amount)
	}
}

// webhookNotification is the union of the shapes Mercado Pago delivers:
// a JSON body with type/data.id, or an empty body with everything in the
// query string.
type webhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var body webhookNotification
	_ = json.NewDecoder(r.Body).Decode(&body) // body may be absent

	notifType := body.Type
	if notifType == "" {
		notifType = q.Get("type")
	}
	if notifType == "" {
		notifType = q.Get("topic")
	}

	paymentID := body.Data.ID.String()
	if paymentID == "" {
		for _, key := range []string{"data.id", "id", "resource"} {
			if v := q.Get(key); v != "" {
				paymentID = v
				break
			}
		}
	}

	if notifType != "payment" || paymentID == "" {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true, "ignored": true})
		return
	}

	outcome, err := s.paymentUC.Reconcile(r.Context(), paymentID, "")
	if err != nil {
		// A notification for a payment we cannot correlate is not ours to
		// retry. Acknowledge it so the provider stops redelivering.
		if errors.Is(err, domain.ErrCorrelationMissing) || errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true, "ignored": true})
			return
		}
		l := logging.With(r.Context(), s.log)
		l.Error().Err(err).Str("provider_payment_id", paymentID).Msg("webhook reconcile failed")
		writeJSON(w, http.StatusInternalServerError, map[string]bool{"ok": false})
		return
	}

	observeReconcile(outcome)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok": true,
		"result": map[string]interface{}{
			"status":  outcome.Status,
			"granted": outcome.Granted,
		},
	})
}

type confirmRequest struct {
	PaymentID string `json:"paymentId"`
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	paymentID := strings.TrimSpace(req.PaymentID)
	if paymentID == "" {
		writeError(w, http.StatusBadRequest, "Missing paymentId")
		return
	}

	outcome, err := s.paymentUC.Reconcile(r.Context(), paymentID, UserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrCorrelationMissing):
			writeError(w, http.StatusNotFound, "Payment not found")
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			writeError(w, http.StatusBadGateway, "Payment provider unavailable")
		default:
			l := logging.With(r.Context(), s.log)
			l.Error().Err(err).Str("provider_payment_id", paymentID).Msg("confirm reconcile failed")
			writeError(w, http.StatusInternalServerError, "Could not confirm payment")
		}
		return
	}

	observeReconcile(outcome)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"status":  outcome.Status,
		"granted": outcome.Granted,
	})
}

type checkoutRequest struct {
	PlanID string `json:"planId"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	planID := strings.TrimSpace(req.PlanID)
	if planID == "" {
		writeError(w, http.StatusBadRequest, "Missing planId")
		return
	}

	payment, checkoutURL, err := s.paymentUC.Checkout(r.Context(), UserID(r.Context()), planID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPlanNotAvailable), errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Plan not available")
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Invalid request")
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			writeError(w, http.StatusBadGateway, "Payment provider unavailable")
		default:
			l := logging.With(r.Context(), s.log)
			l.Error().Err(err).Msg("checkout failed")
			writeError(w, http.StatusInternalServerError, "Could not start checkout")
		}
		return
	}

	metrics.IncCheckout(payment.Provider)
	writeJSON(w, http.StatusOK, map[string]string{
		"paymentId":   payment.ID,
		"checkoutUrl": checkoutURL,
	})
}

type bookRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	class, err := s.bookingUC.Book(r.Context(), UserID(r.Context()), req.Date, req.Time)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Invalid date or time")
		case errors.Is(err, domain.ErrNoClassesRemaining):
			writeError(w, http.StatusConflict, "No classes remaining")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Profile not found")
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			writeError(w, http.StatusBadGateway, "Could not create meeting")
		default:
			l := logging.With(r.Context(), s.log)
			l.Error().Err(err).Msg("booking failed")
			writeError(w, http.StatusInternalServerError, "Could not book class")
		}
		return
	}

	metrics.IncBooking()
	writeJSON(w, http.StatusCreated, class)
}

func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := s.bookingUC.ListClasses(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not list classes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": classes})
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	slots, blocked, err := s.bookingUC.Availability(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not load availability")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"slots":        slots,
		"blockedDates": blocked,
	})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.ListActive(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not list plans")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": plans})
}

func (s *Server) handleMyResources(w http.ResponseWriter, r *http.Request) {
	assigned, err := s.resourceUC.ListForStudent(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not list resources")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": assigned})
}

func (s *Server) handleAllResources(w http.ResponseWriter, r *http.Request) {
	resources, err := s.resourceUC.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not list resources")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": resources})
}

type assignRequest struct {
	StudentID  string `json:"studentId"`
	ResourceID string `json:"resourceId"`
}

func (s *Server) handleAssignResource(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := s.resourceUC.Assign(r.Context(), strings.TrimSpace(req.StudentID), strings.TrimSpace(req.ResourceID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Missing studentId or resourceId")
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "Resource already assigned")
		default:
			writeError(w, http.StatusInternalServerError, "Could not assign resource")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

type chatRequest struct {
	Messages []adapter.Message `json:"messages"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := s.chatUC.Reply(r.Context(), req.Messages)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, "Missing messages")
			return
		}
		writeError(w, http.StatusInternalServerError, "Chat unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
