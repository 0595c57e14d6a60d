// Package apierror provides the error taxonomy shared by the upstream clients
// and the HTTP handlers, plus the standardized response envelopes.
// Upstream failures are classified exactly once, at the HTTP boundary, and
// callers switch on Kind instead of inspecting messages.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind discriminates every failure the BFF can surface.
type Kind string

const (
	KindValidation Kind = "validation"   // 400/422 upstream, or client-side form failure
	KindNotFound   Kind = "not_found"    // 404
	KindConflict   Kind = "conflict"     // 409, or duplicate-record 400s
	KindServer     Kind = "server_error" // 5xx, undecodable bodies, unknown statuses
	KindTransport  Kind = "transport"    // network failure, circuit open
)

// Error is the typed error produced by the REST clients and the forms.
type Error struct {
	Kind   Kind
	Status int // upstream status; 0 for client-side and transport errors
	Detail string
	Fields map[string]string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// Upstream services answer duplicate records with a plain 400 whose detail
// starts with one of these prefixes ("Ya existe una disponibilidad…").
var conflictPrefixes = []string{"ya existe", "already exists"}

// FromResponse classifies a non-2xx upstream response.
func FromResponse(op string, status int, body []byte) *Error {
	detail, fields := parseBody(body)
	if detail == "" {
		detail = http.StatusText(status)
	}
	e := &Error{Status: status, Detail: detail, Fields: fields, Op: op}
	switch {
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusConflict:
		e.Kind = KindConflict
	case status == http.StatusBadRequest && hasConflictPrefix(detail):
		e.Kind = KindConflict
	case status >= 400 && status < 500:
		e.Kind = KindValidation
	default:
		e.Kind = KindServer
	}
	return e
}

func hasConflictPrefix(detail string) bool {
	d := strings.ToLower(strings.TrimSpace(detail))
	for _, p := range conflictPrefixes {
		if strings.HasPrefix(d, p) {
			return true
		}
	}
	return false
}

// parseBody understands the two shapes the upstream services emit:
// {"detail": "msg"} and {"detail": [{"loc": [...], "msg": "..."}]}, plus a
// {"message": "msg"} fallback.
func parseBody(body []byte) (string, map[string]string) {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if len(body) == 0 || json.Unmarshal(body, &envelope) != nil {
		return "", nil
	}
	var detail string
	if len(envelope.Detail) > 0 && json.Unmarshal(envelope.Detail, &detail) == nil {
		return detail, nil
	}
	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if len(envelope.Detail) > 0 && json.Unmarshal(envelope.Detail, &items) == nil && len(items) > 0 {
		fields := make(map[string]string, len(items))
		for _, it := range items {
			key := "_"
			if n := len(it.Loc); n > 0 {
				key = fmt.Sprint(it.Loc[n-1])
			}
			fields[key] = it.Msg
		}
		return "Error de validacion", fields
	}
	return envelope.Message, nil
}

// Transport wraps a network-level failure.
func Transport(op string, err error) *Error {
	return &Error{Kind: KindTransport, Detail: "Servicio no disponible", Op: op, Err: err}
}

// Validation builds a client-side validation failure.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Detail: "Error de validacion", Fields: fields}
}

func NotFound(detail string) *Error { return &Error{Kind: KindNotFound, Detail: detail} }

func Conflict(detail string) *Error { return &Error{Kind: KindConflict, Detail: detail} }

// As extracts a typed error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err; untyped errors count as server errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindServer
}

// HTTPStatus maps a kind to the status the BFF answers with.
func HTTPStatus(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindServer:
		return http.StatusBadGateway
	case KindTransport:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ── Response envelopes ──────────────────────────────────────────────────────

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Kind   Kind   `json:"kind,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Kind   Kind              `json:"kind"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Kind: KindValidation, Fields: fields}
}

// Response converts any error into a status code and a safe envelope.
// Server and transport details are replaced so upstream internals never leak.
func Response(err error) (int, any) {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError, New("Error interno del servidor")
	}
	status := HTTPStatus(e.Kind)
	switch e.Kind {
	case KindValidation:
		if len(e.Fields) > 0 {
			return status, &ValidationError{Detail: e.Detail, Kind: e.Kind, Fields: e.Fields}
		}
		return status, &APIError{Detail: e.Detail, Kind: e.Kind}
	case KindNotFound, KindConflict:
		return status, &APIError{Detail: e.Detail, Kind: e.Kind}
	case KindServer:
		return status, &APIError{Detail: "Error en el servicio remoto", Kind: e.Kind}
	case KindTransport:
		return status, &APIError{Detail: "Servicio remoto no disponible, intente nuevamente", Kind: e.Kind}
	default:
		return http.StatusInternalServerError, New("Error interno del servidor")
	}
}
