// Package apierror define la envoltura de error que reciben los clientes.
// Todo 4xx/5xx sale con la forma {"detail": "..."} para que el frontend
// pueda mostrar el mensaje sin inspeccionar el status.
package apierror

// APIError es la respuesta de error estándar.
type APIError struct {
	Detail string `json:"detail"`
}

// Error implementa error, útil al propagar respuestas en tests.
func (e *APIError) Error() string { return e.Detail }

// New construye un APIError con el mensaje dado.
func New(detail string) *APIError {
	return &APIError{Detail: detail}
}

// ValidationError agrega errores por campo a la envoltura estándar.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

// NewValidation construye la respuesta 422 con el detalle por campo.
func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Datos inválidos", Fields: fields}
}
