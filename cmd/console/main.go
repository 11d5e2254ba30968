// cmd/console/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/yanniacalzado/OptiGest/internal/console"
	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/pkg/config"
	"github.com/yanniacalzado/OptiGest/internal/pkg/logger"
)

// app bundles the console controllers behind the interactive loop.
type app struct {
	gw        *console.Gateway
	dashboard *console.DashboardController
	products  *console.ListController[console.ProductFilters, domain.Product]
	patients  *console.ListController[console.PatientFilters, domain.Patient]

	// active names the listing the paging and filter commands act on.
	active string
	out    *bufio.Writer
	in     *bufio.Scanner
}

func main() {
	slogger := logger.SetupLogger("warn", "text")

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	gw := console.NewGateway(cfg.Console.APIBaseURL, cfg.Console.RequestTimeout, slogger.Logger)

	a := &app{
		gw:        gw,
		dashboard: console.NewDashboardController(gw, slogger.Logger),
		products:  console.NewListController[console.ProductFilters, domain.Product](gw, "/api/products/", "products", "product", slogger.Logger),
		patients:  console.NewListController[console.PatientFilters, domain.Patient](gw, "/api/patients/", "patients", "patient", slogger.Logger),
		active:    "products",
		out:       bufio.NewWriter(os.Stdout),
		in:        bufio.NewScanner(os.Stdin),
	}
	defer a.products.Close()
	defer a.patients.Close()

	a.printf("OptiGest console - %s\n", cfg.Console.APIBaseURL)
	a.printf("Escriba 'help' para ver los comandos.\n\n")
	a.showDashboard(context.Background())

	a.loop(context.Background())
}

func (a *app) loop(ctx context.Context) {
	for {
		a.printf("%s> ", a.active)
		a.out.Flush()

		if !a.in.Scan() {
			return
		}
		line := strings.TrimSpace(a.in.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			a.printf("Hasta luego.\n")
			a.out.Flush()
			return
		case "help":
			a.showHelp()
		case "dashboard":
			a.showDashboard(ctx)
		case "products":
			a.active = "products"
			a.refreshActive(ctx)
		case "patients":
			a.active = "patients"
			a.refreshActive(ctx)
		case "filter":
			a.applyFilter(ctx, args)
		case "reset":
			a.resetFilters(ctx)
		case "page":
			a.gotoPage(ctx, args)
		case "next":
			a.movePage(ctx, +1)
		case "prev":
			a.movePage(ctx, -1)
		case "new":
			a.createRecord(ctx)
		case "export":
			a.showExportURL()
		default:
			a.printf("Comando desconocido: %s\n", cmd)
		}
		a.out.Flush()
	}
}

func (a *app) showHelp() {
	a.printf(`Comandos:
  dashboard             muestra el panel agregado
  products | patients   cambia el listado activo
  filter k=v [k=v ...]  aplica facetas (search, category, supplier, type, status)
  reset                 limpia las facetas y vuelve a la página 1
  page N | next | prev  navegación
  new                   alta interactiva en el listado activo
  export                URL de descarga del listado activo
  quit                  salir
`)
}

func (a *app) showDashboard(ctx context.Context) {
	snapshot := a.dashboard.Load(ctx)

	source := "en vivo"
	if !a.dashboard.Live() {
		source = "datos de demostración"
	}

	a.printf("\n== Panel (%s) ==\n", source)
	a.printf("Ventas del día:   %s\n", snapshot.DailySales.StringFixed(2))
	a.printf("Ventas del mes:   %s\n", snapshot.MonthlySales.StringFixed(2))
	a.printf("Citas hoy:        %d\n", snapshot.Appointments)
	a.printf("Unidades stock:   %d\n", snapshot.Inventory)
	a.printf("Consignaciones:   %d\n", snapshot.Consignments)

	if snapshot.Stats != nil {
		a.printf("Pacientes: %d  Productos: %d  Citas pendientes: %d  Ventas activas: %d\n",
			snapshot.Stats.TotalPatients, snapshot.Stats.TotalProducts,
			snapshot.Stats.PendingAppointments, snapshot.Stats.ActiveSales)
	}

	if len(snapshot.RecentSales) > 0 {
		a.printf("\nÚltimas ventas:\n")
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, s := range snapshot.RecentSales {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", s.Client, s.Amount.StringFixed(2), s.Date)
		}
		w.Flush()
	}

	if len(snapshot.RecentAppointments) > 0 {
		a.printf("\nPróximas citas:\n")
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, apt := range snapshot.RecentAppointments {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", apt.Patient, apt.Time, apt.Type)
		}
		w.Flush()
	}

	if len(snapshot.LowStockProducts) > 0 {
		a.printf("\nStock bajo:\n")
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, p := range snapshot.LowStockProducts {
			fmt.Fprintf(w, "  %s\t%s\t%d\t%s\n", p.Code, p.Name, p.Stock, p.Status)
		}
		w.Flush()
	}
	a.printf("\n")
}

func (a *app) refreshActive(ctx context.Context) {
	var err error
	if a.active == "products" {
		err = a.products.Refresh(ctx)
	} else {
		err = a.patients.Refresh(ctx)
	}
	if err != nil {
		a.printFetchError(err)
	}
	a.renderActive()
}

func (a *app) applyFilter(ctx context.Context, args []string) {
	values := map[string]string{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			a.printf("Faceta inválida: %s (use clave=valor)\n", arg)
			return
		}
		values[k] = v
	}

	var err error
	if a.active == "products" {
		q := a.products.Query()
		f := q.Filters
		for k, v := range values {
			switch k {
			case "search":
				f.Search = v
			case "category":
				f.Category = v
			case "supplier":
				f.Supplier = v
			case "type":
				f.Type = v
			default:
				a.printf("Faceta desconocida para productos: %s\n", k)
				return
			}
		}
		err = a.products.SetFilters(ctx, f)
	} else {
		q := a.patients.Query()
		f := q.Filters
		for k, v := range values {
			switch k {
			case "search":
				f.Search = v
			case "status":
				f.Status = v
			default:
				a.printf("Faceta desconocida para pacientes: %s\n", k)
				return
			}
		}
		err = a.patients.SetFilters(ctx, f)
	}
	if err != nil {
		a.printFetchError(err)
	}
	a.renderActive()
}

func (a *app) resetFilters(ctx context.Context) {
	var err error
	if a.active == "products" {
		err = a.products.ResetFilters(ctx)
	} else {
		err = a.patients.ResetFilters(ctx)
	}
	if err != nil {
		a.printFetchError(err)
	}
	a.renderActive()
}

func (a *app) gotoPage(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.printf("Uso: page N\n")
		return
	}
	page, err := strconv.Atoi(args[0])
	if err != nil || page < 1 {
		a.printf("Página inválida: %s\n", args[0])
		return
	}

	if a.active == "products" {
		err = a.products.SetPage(ctx, page)
	} else {
		err = a.patients.SetPage(ctx, page)
	}
	if err != nil {
		a.printFetchError(err)
	}
	a.renderActive()
}

func (a *app) movePage(ctx context.Context, delta int) {
	var err error
	switch {
	case a.active == "products" && delta > 0:
		err = a.products.NextPage(ctx)
	case a.active == "products":
		err = a.products.PrevPage(ctx)
	case delta > 0:
		err = a.patients.NextPage(ctx)
	default:
		err = a.patients.PrevPage(ctx)
	}
	if err != nil {
		a.printFetchError(err)
	}
	a.renderActive()
}

func (a *app) createRecord(ctx context.Context) {
	if a.active == "products" {
		form := &console.ProductForm{
			Name:     a.prompt("Nombre"),
			Category: a.prompt("Categoría (armazones/lentes/lentes_contacto/accesorios)"),
			Supplier: a.prompt("Proveedor"),
			Type:     a.prompt("Tipo (propio/consignacion, vacío = propio)"),
		}
		if stock, err := strconv.Atoi(a.prompt("Stock")); err == nil {
			form.Stock = stock
		}
		if price, err := decimal.NewFromString(a.prompt("Precio")); err == nil {
			form.Price = price
		}

		product, err := a.products.Create(ctx, form)
		if err != nil {
			a.printCreateError(err)
			return
		}
		a.printf("Producto creado: %s (%s)\n", product.Name, product.Code)
	} else {
		form := &console.PatientForm{
			Name:    a.prompt("Nombre"),
			Email:   a.prompt("Email"),
			Phone:   a.prompt("Teléfono"),
			Status:  a.prompt("Estado (activo/inactivo, vacío = activo)"),
			Address: a.prompt("Dirección"),
			Notes:   a.prompt("Notas"),
		}

		patient, err := a.patients.Create(ctx, form)
		if err != nil {
			a.printCreateError(err)
			return
		}
		a.printf("Paciente registrado: %s\n", patient.Name)
	}
	a.renderActive()
}

func (a *app) showExportURL() {
	path := "/api/products/export/"
	if a.active == "patients" {
		path = "/api/patients/export/"
	}
	a.printf("Descarga: %s\n", a.gw.ExportURL(path))
}

func (a *app) renderActive() {
	if a.active == "products" {
		a.renderProducts()
	} else {
		a.renderPatients()
	}
}

func (a *app) renderProducts() {
	state := a.products.State()
	summary := console.SummarizeProducts(state.Items)

	a.printf("\n== Productos (página %d de %d, %d en total) ==\n",
		state.Pagination.CurrentPage, state.Pagination.TotalPages, state.Pagination.TotalItems)

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CÓDIGO\tNOMBRE\tCATEGORÍA\tPROVEEDOR\tSTOCK\tPRECIO\tESTADO\tTIPO")
	for _, p := range state.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			p.Code, p.Name, p.Category.Display(), p.Supplier,
			p.Stock, p.Price.StringFixed(2), p.Status, p.Type.Display())
	}
	w.Flush()

	a.printf("Resumen de página: %d normal, %d bajo, %d crítico\n\n",
		summary.Normal, summary.Low, summary.Critical)
}

func (a *app) renderPatients() {
	state := a.patients.State()
	summary := console.SummarizePatients(state.Items)

	a.printf("\n== Pacientes (página %d de %d, %d en total) ==\n",
		state.Pagination.CurrentPage, state.Pagination.TotalPages, state.Pagination.TotalItems)

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NOMBRE\tEMAIL\tTELÉFONO\tESTADO\tCOMPRAS")
	for _, p := range state.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			p.Name, p.Email, p.Phone, p.Status, p.TotalPurchases)
	}
	w.Flush()

	a.printf("Resumen de página: %d activos, %d inactivos, %d compras\n\n",
		summary.Active, summary.Inactive, summary.TotalPurchases)
}

func (a *app) prompt(label string) string {
	a.printf("%s: ", label)
	a.out.Flush()
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) printFetchError(err error) {
	if fe, ok := console.AsFetchError(err); ok {
		switch fe.Reason {
		case console.ReasonTimeout:
			a.printf("El servidor tardó demasiado en responder.\n")
		case console.ReasonHTTP:
			a.printf("El servidor respondió con un error (HTTP %d).\n", fe.Status)
		default:
			a.printf("No se pudo conectar con el servidor.\n")
		}
		return
	}
	a.printf("Error: %v\n", err)
}

func (a *app) printCreateError(err error) {
	var ve *console.ValidationError
	if errors.As(err, &ve) {
		a.printf("Dato inválido (%s): %s\n", ve.Field, ve.Message)
		return
	}
	if fe, ok := console.AsFetchError(err); ok && fe.Message != "" {
		a.printf("Rechazado: %s\n", fe.Message)
		return
	}
	a.printFetchError(err)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
