package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	dErrors "whiteboard/pkg/domain-errors"
	"whiteboard/pkg/platform/httputil"
)

// HashSecret creates a bcrypt hash of an admin secret for ADMIN_SECRET_HASH.
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "secret cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "secret is too long")
		}
		return "", fmt.Errorf("could not hash secret: %w", err)
	}
	return string(hashed), nil
}

// VerifySecret checks a plaintext secret against a bcrypt hash.
func VerifySecret(secret, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid secret")
		}
		return fmt.Errorf("could not verify secret: %w", err)
	}
	return nil
}

// TokenResponse is returned by IssueAdminToken.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// IssueAdminToken exchanges HTTP basic credentials for an admin bearer token.
// The password is checked against secretHash; the username becomes the
// token subject.
func IssueAdminToken(key []byte, secretHash string, ttl time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestID(ctx)

		subject, secret, ok := r.BasicAuth()
		if !ok || subject == "" {
			writeUnauthorized(w, "Missing or invalid basic credentials")
			return
		}
		if err := VerifySecret(secret, secretHash); err != nil {
			logger.WarnContext(ctx, "admin token request rejected",
				"error", err,
				"subject", subject,
				"client", GetClient(ctx),
				"request_id", requestID,
			)
			writeUnauthorized(w, "Invalid credentials")
			return
		}

		token, err := SignAdminToken(key, subject, ttl, time.Now())
		if err != nil {
			logger.ErrorContext(ctx, "failed to sign admin token",
				"error", err,
				"request_id", requestID,
			)
			httputil.WriteError(w, err)
			return
		}
		logger.InfoContext(ctx, "admin token issued",
			"subject", subject,
			"client", GetClient(ctx),
			"request_id", requestID,
		)
		httputil.WriteJSON(w, http.StatusOK, TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(ttl.Seconds()),
		})
	}
}
