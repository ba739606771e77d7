package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidState       = errors.New("transición de estado inválida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// InsufficientStockError lleva el saldo disponible y la cantidad solicitada que
// provocaron el rechazo. errors.Is(err, ErrInsufficientStock) sigue funcionando
// gracias a Unwrap.
type InsufficientStockError struct {
	Disponible decimal.Decimal
	Solicitada decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %s, solicitado %s",
		e.Disponible.String(), e.Solicitada.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
