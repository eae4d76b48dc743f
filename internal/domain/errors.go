package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Todos son recuperables por el caller; los handlers HTTP los mapean a códigos 4xx.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrLocationNotFound  = errors.New("bodega no encontrada")
	ErrSessionNotFound   = errors.New("sesión de conteo no encontrada")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrAlreadyApplied    = errors.New("la sesión de conteo ya fue aplicada")
	ErrLocationInUse     = errors.New("la bodega tiene stock o movimientos asociados")
)
