// Package httpx holds the JSON response helpers used by every handler.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

const maxBodyBytes = 1 << 20

const genericInternalMessage = "Something went wrong!"

type apiError struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// Decode reads a JSON request body into dst. Malformed bodies become
// validation errors.
func Decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Wrap(apperr.CodeValidation, "invalid json body", err)
	}
	return nil
}

// DecodeOptional is Decode for endpoints whose body may be left out. An
// empty body, chunked or not, leaves dst untouched.
func DecodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.ContentLength == 0 || r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Wrap(apperr.CodeValidation, "invalid json body", err)
	}
	return nil
}

type debugKey struct{}

// ExposeErrors marks requests whose INTERNAL errors may carry the raw
// error text. The server enables it outside production.
func ExposeErrors(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), debugKey{}, enabled)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func exposed(ctx context.Context) bool {
	v, _ := ctx.Value(debugKey{}).(bool)
	return v
}

// Error renders err using the apperr taxonomy.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := apperr.As(err)
	if !ok || e.Code == apperr.CodeInternal {
		body := apiError{Error: string(apperr.CodeInternal), Message: genericInternalMessage}
		if exposed(r.Context()) {
			body.Details = err.Error()
		}
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Respond(w, http.StatusInternalServerError, body)
		return
	}

	body := apiError{Error: string(e.Code), Message: e.Message}
	if len(e.Fields) > 0 {
		body.Details = e.Fields
	}
	Respond(w, e.Code.HTTPStatus(), body)
}

// Recoverer turns panics into a generic JSON 500.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.ErrorContext(r.Context(), "panic recovered", "panic", rec, "stack", string(debug.Stack()))
			body := apiError{Error: string(apperr.CodeInternal), Message: genericInternalMessage}
			if exposed(r.Context()) {
				body.Details = fmt.Sprint(rec)
			}
			Respond(w, http.StatusInternalServerError, body)
		}()
		next.ServeHTTP(w, r)
	})
}

// NotFound is the router fallback for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Respond(w, http.StatusNotFound, apiError{Error: string(apperr.CodeNotFound), Message: "API endpoint not found"})
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Respond(w, http.StatusMethodNotAllowed, apiError{Error: "METHOD_NOT_ALLOWED", Message: "method not allowed"})
}

// QueryInt parses a positive integer query parameter, falling back to def
// when it is missing or malformed.
func QueryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
