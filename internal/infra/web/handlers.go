package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
	"mixpool-commerce/internal/infra/logging"
	"mixpool-commerce/internal/infra/metrics"
	"mixpool-commerce/internal/usecase"
)

// maxWebhookBody caps webhook payloads; provider events are a few KB.
const maxWebhookBody = 1 << 20

// statusFor maps domain errors onto the API's status codes. Anything
// unrecognized is a 500 and the body never leaks internals.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrMissingOrderID),
		errors.Is(err, domain.ErrFileIndexOutOfRange),
		errors.Is(err, domain.ErrPaymentNotVerified):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrPurchaseRequired),
		errors.Is(err, domain.ErrSubscriptionNeeded),
		errors.Is(err, domain.ErrQuotaExhausted):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrProductUnpublished):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrEntitlementExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("request failed")
		msg = "internal error"
	}
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// handlePaystackWebhook is the provider-facing entry point. The contract with
// the provider: 200 means "stop retrying", anything else means "try again".
// So a bad signature is rejected, a malformed-but-authentic payload is acked
// (a retry cannot fix it), and a processing failure is a 500 to get the
// delivery redelivered.
func (s *Server) handlePaystackWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody+1))
	if err != nil {
		metrics.IncWebhook("read_error")
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	if len(body) > maxWebhookBody {
		metrics.IncWebhook("too_large")
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}

	// The signature covers the raw bytes; verify before parsing anything.
	if !s.verifier.Verify(body, r.Header.Get("X-Paystack-Signature")) {
		metrics.IncWebhook("bad_signature")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var envelope model.WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		logging.With(r.Context(), s.log).Warn().Err(err).Msg("authentic webhook with malformed body")
		metrics.IncWebhook("malformed")
		w.WriteHeader(http.StatusOK)
		return
	}
	if envelope.Event != "charge.success" {
		metrics.IncWebhook("ignored_event")
		w.WriteHeader(http.StatusOK)
		return
	}

	ev := envelope.Data
	task := func(ctx context.Context) error {
		ctx = logging.WithReference(ctx, ev.Reference)
		if err := s.processor.Process(ctx, &ev); err != nil && !usecase.IsBenignProcessError(err) {
			return err
		}
		return nil
	}

	if err := s.pool.Submit(task); err != nil {
		// Degraded mode: the pool is saturated, process inline so the
		// delivery is not lost. A failure here becomes a 500 and the
		// provider redelivers.
		metrics.IncWebhookDegraded()
		ctx := logging.WithReference(r.Context(), ev.Reference)
		logging.With(ctx, s.log).Warn().Err(err).Str("reference", ev.Reference).Msg("worker pool saturated, processing webhook inline")
		if perr := s.processor.Process(ctx, &ev); perr != nil && !usecase.IsBenignProcessError(perr) {
			metrics.IncWebhook("process_error")
			http.Error(w, "processing failed", http.StatusInternalServerError)
			return
		}
	}

	metrics.IncWebhook("accepted")
	w.WriteHeader(http.StatusOK)
}

// handleVerifyPayment serves the client-initiated path: the browser lands
// back from checkout before the webhook has arrived and asks us to settle the
// reference now.
func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		s.writeError(w, r, domain.ErrInvalidArgument)
		return
	}
	ctx := logging.WithReference(r.Context(), reference)

	ev, err := s.payments.VerifyAndProcess(ctx, reference)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reference": ev.Reference,
		"status":    ev.Status,
		"amount":    ev.Amount,
	})
}

type issueTokenRequest struct {
	ProductID string `json:"product_id"`
	OrderID   string `json:"order_id"`
}

// handleIssueToken mints a download token. Callers prove access with an
// order id for paid products or a covering subscription for tiered ones;
// guests may issue against a paid order without logging in.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	userID := ""
	role := model.RoleUser
	if claims, ok := claimsFrom(r.Context()); ok {
		userID = claims.UserID()
		role = claims.UserRole()
	}
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, domain.ErrInvalidArgument)
		return
	}

	tok, err := s.downloads.Issue(r.Context(), req.ProductID, userID, req.OrderID, role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":        tok.Token,
		"expires_at":   tok.ExpiresAt.Format(time.RFC3339),
		"download_url": redeemURL(tok.Token),
	})
}

// redeemURL is the relative redemption link for a freshly minted token. The
// file bytes themselves are never proxied here.
func redeemURL(token string) string {
	return "/api/v1/downloads/secure?token=" + url.QueryEscape(token)
}

// handleRedeemToken spends one use of a token and returns the file pointer.
// No login required: the token is the credential.
func (s *Server) handleRedeemToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		s.writeError(w, r, domain.ErrInvalidArgument)
		return
	}
	fileIndex := 0
	if raw := r.URL.Query().Get("file"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, domain.ErrInvalidArgument)
			return
		}
		fileIndex = idx
	}

	file, err := s.downloads.Redeem(r.Context(), token, fileIndex)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"download_url": file.DownloadURL,
		"file_name":    file.FileName,
		"file_size":    file.FileSize,
	})
}

type requestDownloadRequest struct {
	ProductID string `json:"product_id"`
}

// handleRequestDownload is the entitlement flow: consume one download from
// the caller's quota and hand back a fresh token.
func (s *Server) handleRequestDownload(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthorized)
		return
	}
	var req requestDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, domain.ErrInvalidArgument)
		return
	}

	tok, remaining, err := s.downloads.RequestDownload(r.Context(), claims.UserID(), claims.UserRole(), req.ProductID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"message":             "download ready",
		"token":               tok.Token,
		"expires_at":          tok.ExpiresAt.Format(time.RFC3339),
		"download_url":        redeemURL(tok.Token),
		"downloads_remaining": remaining,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
