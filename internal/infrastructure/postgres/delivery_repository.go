package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jcastellr/gestion-api/internal/domain/entity"
	"github.com/jcastellr/gestion-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)
var _ repository.DeliverySequenceRepository = (*DeliverySequenceRepo)(nil)

const deliveryColumns = `e.id, e.numero_entrega, e.usuario_asignado, e.usuario_entrega,
		e.fecha_entrega, e.motivo, e.observaciones, e.estado, e.creado_por,
		e.created_at, e.updated_at`

// DeliveryRepo implementación de DeliveryRepository sobre PostgreSQL (usable con pool o tx).
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste la cabecera de una entrega.
func (r *DeliveryRepo) Create(d *entity.Delivery) error {
	query := `
		INSERT INTO entregas (id, numero_entrega, usuario_asignado, usuario_entrega,
			fecha_entrega, motivo, observaciones, estado, creado_por, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.NumeroEntrega, d.UsuarioAsignado, d.UsuarioEntrega,
		d.FechaEntrega, d.Motivo, d.Observaciones, d.Estado, d.CreadoPor,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("numero de entrega duplicado: %w", err)
		}
		return fmt.Errorf("insert entrega: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de entrega.
func (r *DeliveryRepo) CreateLine(line *entity.DeliveryLine) error {
	query := `
		INSERT INTO entrega_detalles (id, entrega_id, producto_id, cantidad,
			precio_unitario, observaciones)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.EntregaID, line.ProductID, line.Cantidad,
		line.PrecioUnitario, line.Observaciones,
	)
	if err != nil {
		return fmt.Errorf("insert detalle entrega: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una entrega.
func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM entregas e WHERE e.id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate bloquea la cabecera (SELECT FOR UPDATE) para excluir
// procesadores o canceladores concurrentes de la misma entrega.
func (r *DeliveryRepo) GetByIDForUpdate(id string) (*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM entregas e WHERE e.id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *DeliveryRepo) scanOne(query, id string) (*entity.Delivery, error) {
	var d entity.Delivery
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.NumeroEntrega, &d.UsuarioAsignado, &d.UsuarioEntrega,
		&d.FechaEntrega, &d.Motivo, &d.Observaciones, &d.Estado, &d.CreadoPor,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entrega: %w", err)
	}
	return &d, nil
}

// GetLines obtiene las líneas de una entrega con datos del producto resueltos.
func (r *DeliveryRepo) GetLines(deliveryID string) ([]*entity.DeliveryLine, error) {
	query := `
		SELECT d.id, d.entrega_id, d.producto_id, d.cantidad, d.precio_unitario,
			d.observaciones, p.nombre, p.codigo, p.unidad_medida
		FROM entrega_detalles d
		JOIN productos p ON p.id = d.producto_id
		WHERE d.entrega_id = $1
		ORDER BY p.codigo`
	rows, err := r.q.Query(context.Background(), query, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("list detalles entrega: %w", err)
	}
	defer rows.Close()
	var lines []*entity.DeliveryLine
	for rows.Next() {
		var l entity.DeliveryLine
		if err := rows.Scan(
			&l.ID, &l.EntregaID, &l.ProductID, &l.Cantidad, &l.PrecioUnitario,
			&l.Observaciones, &l.ProductoNombre, &l.ProductoCodigo, &l.UnidadMedida,
		); err != nil {
			return nil, fmt.Errorf("scan detalle entrega: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// UpdateEstado cambia el estado de la entrega y registra quién la procesó.
func (r *DeliveryRepo) UpdateEstado(id, estado string, usuarioEntrega *string, updatedAt time.Time) error {
	query := `UPDATE entregas SET estado = $2, usuario_entrega = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, estado, usuarioEntrega, updatedAt)
	if err != nil {
		return fmt.Errorf("update estado entrega: %w", err)
	}
	return nil
}

// List lista entregas, más recientes primero, con filtro opcional por estado.
func (r *DeliveryRepo) List(filter repository.DeliveryFilter, limit, offset int) ([]*entity.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `, ua.nombre, ue.nombre
		FROM entregas e
		JOIN usuarios ua ON ua.id = e.usuario_asignado
		LEFT JOIN usuarios ue ON ue.id = e.usuario_entrega`
	args := []any{}
	pos := 1
	if filter.Estado != "" {
		query += fmt.Sprintf(" WHERE e.estado = $%d", pos)
		args = append(args, filter.Estado)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY e.created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entregas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Delivery
	for rows.Next() {
		var d entity.Delivery
		var entregaNombre *string
		if err := rows.Scan(
			&d.ID, &d.NumeroEntrega, &d.UsuarioAsignado, &d.UsuarioEntrega,
			&d.FechaEntrega, &d.Motivo, &d.Observaciones, &d.Estado, &d.CreadoPor,
			&d.CreatedAt, &d.UpdatedAt, &d.AsignadoNombre, &entregaNombre,
		); err != nil {
			return nil, fmt.Errorf("scan entrega: %w", err)
		}
		if entregaNombre != nil {
			d.EntregaNombre = *entregaNombre
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// DeliverySequenceRepo contador diario de numeración de entregas.
type DeliverySequenceRepo struct {
	q Querier
}

// NewDeliverySequenceRepository construye el adaptador. Usar siempre dentro de
// la transacción que inserta la entrega.
func NewDeliverySequenceRepository(q Querier) *DeliverySequenceRepo {
	return &DeliverySequenceRepo{q: q}
}

// Next entrega el siguiente consecutivo del día de forma atómica: upsert sobre
// la fila contador de la fecha con incremento en el mismo statement. Creadores
// concurrentes serializan en el lock de esa fila; no hay ventana leer-luego-insertar.
func (r *DeliverySequenceRepo) Next(fecha time.Time) (int, error) {
	query := `
		INSERT INTO entrega_secuencias (fecha, ultimo_valor)
		VALUES ($1, 1)
		ON CONFLICT (fecha)
		DO UPDATE SET ultimo_valor = entrega_secuencias.ultimo_valor + 1
		RETURNING ultimo_valor`
	var seq int
	err := r.q.QueryRow(context.Background(), query, fecha.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("siguiente consecutivo de entrega: %w", err)
	}
	return seq, nil
}
