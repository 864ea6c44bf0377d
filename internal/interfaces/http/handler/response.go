package handler

import "github.com/sellerops/backend/internal/interfaces/http/dto"

// APIResponse mirrors the wire envelope with a typed data field. The
// handlers emit dto.Response; this shape is for callers (and tests)
// that want the payload decoded into a concrete type.
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}
