package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcastellr/gestion-api/internal/domain/entity"
	"github.com/jcastellr/gestion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: no hay UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del ledger.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO movimientos_stock (id, producto_id, tipo, cantidad, stock_anterior,
			stock_nuevo, motivo, referencia, entrega_id, usuario_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.Tipo, m.Cantidad, m.StockAnterior, m.StockNuevo,
		m.Motivo, m.Referencia, m.EntregaID, m.UsuarioID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `
		SELECT m.id, m.producto_id, m.tipo, m.cantidad, m.stock_anterior, m.stock_nuevo,
			m.motivo, m.referencia, m.entrega_id, m.usuario_id, m.created_at,
			p.nombre, u.nombre
		FROM movimientos_stock m
		JOIN productos p ON p.id = m.producto_id
		JOIN usuarios u ON u.id = m.usuario_id
		WHERE m.id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.Tipo, &m.Cantidad, &m.StockAnterior, &m.StockNuevo,
		&m.Motivo, &m.Referencia, &m.EntregaID, &m.UsuarioID, &m.CreatedAt,
		&m.ProductoNombre, &m.UsuarioNombre,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return &m, nil
}

// ListByProduct lista movimientos de un producto, más recientes primero,
// con filtros opcionales de tipo y rango de fechas.
func (r *StockMovementRepo) ListByProduct(productID string, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT m.id, m.producto_id, m.tipo, m.cantidad, m.stock_anterior, m.stock_nuevo,
			m.motivo, m.referencia, m.entrega_id, m.usuario_id, m.created_at,
			p.nombre, u.nombre
		FROM movimientos_stock m
		JOIN productos p ON p.id = m.producto_id
		JOIN usuarios u ON u.id = m.usuario_id
		WHERE m.producto_id = $1`
	args := []any{productID}
	pos := 2
	if filter.Tipo != "" {
		query += fmt.Sprintf(" AND m.tipo = $%d", pos)
		args = append(args, filter.Tipo)
		pos++
	}
	if filter.Desde != nil {
		query += fmt.Sprintf(" AND m.created_at >= $%d", pos)
		args = append(args, *filter.Desde)
		pos++
	}
	if filter.Hasta != nil {
		query += fmt.Sprintf(" AND m.created_at <= $%d", pos)
		args = append(args, *filter.Hasta)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Tipo, &m.Cantidad, &m.StockAnterior, &m.StockNuevo,
			&m.Motivo, &m.Referencia, &m.EntregaID, &m.UsuarioID, &m.CreatedAt,
			&m.ProductoNombre, &m.UsuarioNombre,
		); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
