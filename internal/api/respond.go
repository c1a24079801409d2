package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Bradwave/parabolawhat/internal/explain"
	"github.com/Bradwave/parabolawhat/internal/llm"
	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/session"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("bad json: %w", err)
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		rateLimit *llm.ErrRateLimit
		unavail   *llm.ErrProviderUnavailable
		invalid   *llm.ErrInvalidResponse
	)
	switch {
	case errors.Is(err, session.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, session.ErrStrokeTooShort), errors.Is(err, problemgen.ErrDomainTooSmall):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest),
		errors.Is(err, session.ErrWrongAnswerKind),
		errors.Is(err, session.ErrChoiceOutOfRange),
		errors.Is(err, session.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, explain.ErrUnavailable), errors.Is(err, llm.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &rateLimit):
		return http.StatusTooManyRequests
	case errors.As(err, &unavail), errors.As(err, &invalid):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeDomainErr(w http.ResponseWriter, err error) {
	writeErr(w, statusFor(err), err.Error())
}
