// Package cli implementa la superficie de usuario del grid como un shell de líneas.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/jhoicas/items-grid/internal/application/grid"
	"github.com/jhoicas/items-grid/internal/domain"
	"github.com/jhoicas/items-grid/internal/domain/entity"
	"github.com/jhoicas/items-grid/internal/infrastructure/pdf"
	"github.com/jhoicas/items-grid/pkg/money"
)

const helpText = `Comandos:
  load                          recargar la colección remota
  list                          mostrar filas visibles
  add                           agregar un borrador (hereda el filtro activo)
  edit <fila> <campo> <valor>   editar name | category | price
  save <fila>                   crear o actualizar en el servidor
  delete <fila>                 eliminar (local si es borrador)
  filter <categoría|All>        filtrar por categoría
  categories                    listar categorías
  dismiss                       ocultar la notificación
  export <archivo.pdf>          exportar la vista a PDF
  help                          esta ayuda
  quit                          salir
<fila> es la posición en la vista (1..N) o un prefijo único del RowID.`

// Options dependencias opcionales del shell.
type Options struct {
	Money    *money.Formatter
	Exporter *pdf.ReportGenerator
	Timeout  time.Duration // por operación remota; 0 sin límite propio
}

// Shell traduce comandos de texto a operaciones del grid.
type Shell struct {
	grid     *grid.Grid
	money    *money.Formatter
	exporter *pdf.ReportGenerator
	timeout  time.Duration

	mu  sync.Mutex
	out io.Writer
}

// NewShell construye el shell y se suscribe a las notificaciones del grid.
func NewShell(g *grid.Grid, out io.Writer, opts Options) *Shell {
	if opts.Money == nil {
		opts.Money = money.NewFormatter("en-US")
	}
	if opts.Exporter == nil {
		opts.Exporter = pdf.NewReportGenerator(opts.Money)
	}
	s := &Shell{grid: g, out: out, money: opts.Money, exporter: opts.Exporter, timeout: opts.Timeout}
	g.OnNotify(func(n grid.Notification) {
		if n.Visible {
			s.printf("[%s] %s\n", n.Severity, n.Message)
		}
	})
	return s
}

// Run lee comandos de in hasta EOF o quit.
func (s *Shell) Run(ctx context.Context, in io.Reader, prompt bool) error {
	sc := bufio.NewScanner(in)
	for {
		if prompt {
			s.printf("> ")
		}
		if !sc.Scan() {
			return sc.Err()
		}
		quit, err := s.Exec(ctx, sc.Text())
		if err != nil {
			s.printf("error: %v\n", err)
		}
		if quit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Exec ejecuta una línea. quit es true para "quit"/"exit".
func (s *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help", "?":
		s.printf("%s\n", helpText)
	case "load":
		return false, s.remote(ctx, s.grid.Load)
	case "list", "ls":
		s.List()
	case "add":
		row := s.grid.AddRow()
		s.printf("fila %d agregada (%s)\n", s.grid.Total(), row.RowID)
	case "edit":
		return false, s.edit(args)
	case "save":
		return false, s.rowCommand(ctx, args, s.grid.Save)
	case "delete", "rm":
		return false, s.rowCommand(ctx, args, s.grid.Delete)
	case "filter":
		if len(args) == 0 {
			return false, fmt.Errorf("uso: filter <categoría|All>")
		}
		return false, s.Filter(strings.Join(args, " "))
	case "categories":
		for _, c := range s.grid.Categories() {
			s.printf("%s\n", c)
		}
	case "dismiss":
		s.grid.DismissNotification()
	case "export":
		if len(args) == 0 {
			return false, fmt.Errorf("uso: export <archivo.pdf>")
		}
		return false, s.Export(strings.Join(args, " "))
	default:
		return false, fmt.Errorf("comando desconocido %q (help)", cmd)
	}
	return false, nil
}

func (s *Shell) edit(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("uso: edit <fila> <campo> <valor>")
	}
	rowID, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	field := entity.Field(strings.ToLower(args[1]))
	value := strings.Join(args[2:], " ")
	if err := s.grid.Edit(rowID, field, value); err != nil {
		return err
	}
	return s.grid.Commit(rowID)
}

func (s *Shell) rowCommand(ctx context.Context, args []string, fn func(context.Context, string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("uso: <comando> <fila>")
	}
	rowID, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	return s.remote(ctx, func(ctx context.Context) error { return fn(ctx, rowID) })
}

// remote ejecuta una operación remota. Los fallos ya se muestran como notificación,
// así que aquí sólo se devuelven los errores que no pasan por el canal.
func (s *Shell) remote(ctx context.Context, fn func(context.Context) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	err := fn(ctx)
	if err == nil || errors.Is(err, domain.ErrNetworkFailure) || errors.Is(err, domain.ErrRowBusy) {
		return nil
	}
	return err
}

// resolve acepta la posición 1..N en la vista visible o un prefijo único de RowID.
func (s *Shell) resolve(ref string) (string, error) {
	visible := s.grid.Visible()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(visible) {
			return "", fmt.Errorf("fila %d fuera de rango (1..%d)", n, len(visible))
		}
		return visible[n-1].RowID, nil
	}
	var match string
	for _, r := range s.grid.Rows() {
		if strings.HasPrefix(r.RowID, ref) {
			if match != "" {
				return "", fmt.Errorf("prefijo %q ambiguo", ref)
			}
			match = r.RowID
		}
	}
	if match == "" {
		return "", domain.ErrRowNotFound
	}
	return match, nil
}

// List muestra la vista visible con el total.
func (s *Shell) List() {
	s.mu.Lock()
	defer s.mu.Unlock()
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tROW\tID\tNAME\tCATEGORY\tPRICE\tSTATE")
	for i, r := range s.grid.Visible() {
		state := "guardada"
		switch {
		case r.IsNew:
			state = "nueva"
		case s.grid.InFlight(r.RowID):
			state = "en curso"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, shortID(r.RowID), dash(r.ID), dash(r.Name), dash(string(r.Category)), s.money.Format(r.Price), state)
	}
	_ = tw.Flush()
	fmt.Fprintf(s.out, "Total Items: %d (filtro: %s)\n", s.grid.Total(), s.grid.Filter())
}

// Filter aplica el filtro de categoría (puede contener espacios) y muestra la vista.
func (s *Shell) Filter(category string) error {
	if err := s.grid.SetFilter(category); err != nil {
		return fmt.Errorf("%q: %w", category, err)
	}
	s.List()
	return nil
}

// Export escribe el PDF de la vista visible en path.
func (s *Shell) Export(path string) error {
	doc, err := s.exporter.Generate(pdf.ItemsReport{
		Title:  "Items",
		Filter: s.grid.Filter(),
		Rows:   s.grid.Visible(),
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	s.printf("exportado %s (%d filas)\n", path, s.grid.Total())
	return nil
}

func (s *Shell) printf(format string, a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, a...)
}

func shortID(id string) string {
	if len(id) > 10 {
		return id[:10]
	}
	return id
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
