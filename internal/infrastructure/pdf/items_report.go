// Package pdf exporta la vista visible del grid de ítems a PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + filtro activo   │  fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | ID | Nombre | Categoría | Precio                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total Items / suma de precios                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/items-grid/internal/domain/entity"
	"github.com/jhoicas/items-grid/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ItemsReport datos de la exportación.
type ItemsReport struct {
	Title       string
	Filter      entity.Category
	Rows        []entity.Row
	GeneratedAt time.Time
}

// ReportGenerator genera el PDF de la vista del grid usando Maroto v2.
type ReportGenerator struct {
	money *money.Formatter
}

// NewReportGenerator construye el generador con el formato de precios dado.
func NewReportGenerator(f *money.Formatter) *ReportGenerator {
	if f == nil {
		f = money.NewFormatter("en-US")
	}
	return &ReportGenerator{money: f}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *ReportGenerator) Generate(rep ItemsReport) ([]byte, error) {
	if rep.Title == "" {
		rep.Title = "Items"
	}
	if rep.GeneratedAt.IsZero() {
		rep.GeneratedAt = time.Now()
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(rep.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableRows(rep.Rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(rep.Rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y filtro (izq), fecha (der).
func headerRow(rep ItemsReport) core.Row {
	filter := string(rep.Filter)
	if filter == "" {
		filter = string(entity.CategoryAll)
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New(rep.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Categoría: "+filter, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("ID", 3, align.Left),
		h("Nombre", 4, align.Left),
		h("Categoría", 2, align.Left),
		h("Precio", 2, align.Right),
	)
}

// tableRows: una fila por ítem visible. Los borradores se marcan con "(nuevo)".
func (g *ReportGenerator) tableRows(rows []entity.Row) []core.Row {
	out := make([]core.Row, 0, len(rows))
	for i, r := range rows {
		id := r.ID
		if r.IsNew {
			id = "(nuevo)"
		}
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(id, props.Text{Size: 7, Top: 1, Left: 1, Color: colorGray})),
			col.New(4).Add(text.New(r.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(string(r.Category), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.money.Format(r.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func (g *ReportGenerator) totalsRow(rows []entity.Row) core.Row {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Price)
	}
	return row.New(12).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Total Items: %d", len(rows)), props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
		})),
		col.New(6).Add(text.New(g.money.Format(sum), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}
