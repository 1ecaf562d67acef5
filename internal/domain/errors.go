package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrInvalidCategory = errors.New("categoría no permitida")
	ErrUnauthorized    = errors.New("no autorizado")

	// Grid (cliente).
	ErrNetworkFailure = errors.New("fallo de red o respuesta de error del recurso remoto")
	ErrRowNotFound    = errors.New("fila no encontrada")
	ErrRowBusy        = errors.New("la fila tiene una operación en curso")
	ErrUnknownField   = errors.New("campo desconocido")
)
