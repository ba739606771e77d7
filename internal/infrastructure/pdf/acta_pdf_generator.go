// Package pdf implementa la generación del acta de entrega imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Acta de Entrega  │  N° Entrega + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RECEPTOR: nombre asignado   ENTREGADO POR: nombre          │
//	│  MOTIVO / OBSERVACIONES                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Cant | Unidad | P.Unit          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Entrega ____________   Recibe ____________         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appdelivery "github.com/jcastellr/gestion-api/internal/application/delivery"
	"github.com/jcastellr/gestion-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appdelivery.ActaPDFGenerator = (*MarotoActaGenerator)(nil)

// MarotoActaGenerator implementa delivery.ActaPDFGenerator usando Maroto v2.
type MarotoActaGenerator struct{}

// NewMarotoActaGenerator construye el generador.
func NewMarotoActaGenerator() *MarotoActaGenerator { return &MarotoActaGenerator{} }

// GenerateActaPDF genera el acta de entrega y devuelve sus bytes.
func (g *MarotoActaGenerator) GenerateActaPDF(_ context.Context, d *entity.Delivery) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de Entrega "+d.NumeroEntrega, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(receptorRow(d))
	if d.Motivo != "" || d.Observaciones != "" {
		m.AddRows(motivoRow(d))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(d.Detalles) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(firmasRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar acta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y N° de entrega + fecha (der).
func headerRow(d *entity.Delivery) core.Row {
	fecha := d.FechaEntrega.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ACTA DE ENTREGA DE PRODUCCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+strings.ToUpper(d.Estado), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(d.NumeroEntrega, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// receptorRow: quién recibe y quién entrega.
func receptorRow(d *entity.Delivery) core.Row {
	entregadoPor := "—"
	if d.EntregaNombre != "" {
		entregadoPor = d.EntregaNombre
	}
	return row.New(12).Add(
		col.New(6).Add(
			text.New("RECIBE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(d.AsignadoNombre, props.Text{Size: 9, Top: 7}),
		),
		col.New(6).Add(
			text.New("ENTREGA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(entregadoPor, props.Text{Size: 9, Top: 7}),
		),
	)
}

// motivoRow: motivo y observaciones de la cabecera.
func motivoRow(d *entity.Delivery) core.Row {
	texto := d.Motivo
	if d.Observaciones != "" {
		if texto != "" {
			texto += "   |   "
		}
		texto += d.Observaciones
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New("MOTIVO / OBSERVACIONES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(texto, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}
	return row.New(8).Add(
		col.New(2).Add(text.New("Código", h)),
		col.New(5).Add(text.New("Producto", h)),
		col.New(2).Add(text.New("Cantidad", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right})),
		col.New(1).Add(text.New("Unidad", h)),
		col.New(2).Add(text.New("P. Unitario", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right})),
	)
}

func tableDetailRows(lines []*entity.DeliveryLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(l.ProductoCodigo, props.Text{Size: 8, Top: 1})),
			col.New(5).Add(text.New(l.ProductoNombre, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(l.Cantidad.String(), props.Text{Size: 8, Top: 1, Align: align.Right})),
			col.New(1).Add(text.New(l.UnidadMedida, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(l.PrecioUnitario.StringFixed(2), props.Text{Size: 8, Top: 1, Align: align.Right})),
		))
	}
	return rows
}

// firmasRow: cajas de firma para quien entrega y quien recibe.
func firmasRow() core.Row {
	return row.New(25).Add(
		col.New(6).Add(
			text.New("_______________________", props.Text{Size: 9, Top: 14, Align: align.Center}),
			text.New("Firma entrega", props.Text{Size: 8, Top: 20, Align: align.Center, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("_______________________", props.Text{Size: 9, Top: 14, Align: align.Center}),
			text.New("Firma recibe", props.Text{Size: 8, Top: 20, Align: align.Center, Color: colorGray}),
		),
	)
}
