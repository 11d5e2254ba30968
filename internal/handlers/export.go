// internal/handlers/export.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tealeg/xlsx/v3"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/core/ports"
)

// ExportHandler produces the XLSX downloads for the admin console
type ExportHandler struct {
	products ports.ProductService
	patients ports.PatientService
	logger   *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(products ports.ProductService, patients ports.PatientService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		products: products,
		patients: patients,
		logger:   logger.With(slog.String("handler", "export")),
	}
}

// ExportProducts handles GET /api/products/export/
func (h *ExportHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.products.ExportAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load products for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	data, err := h.generateProductsFile(products)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate products workbook",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	h.writeWorkbook(w, "productos.xlsx", data)

	h.logger.InfoContext(ctx, "products export completed",
		slog.Int("total_rows", len(products)))
}

// ExportPatients handles GET /api/patients/export/
func (h *ExportHandler) ExportPatients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patients, err := h.patients.ExportAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load patients for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	data, err := h.generatePatientsFile(patients)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate patients workbook",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	h.writeWorkbook(w, "pacientes.xlsx", data)

	h.logger.InfoContext(ctx, "patients export completed",
		slog.Int("total_rows", len(patients)))
}

func (h *ExportHandler) generateProductsFile(products []domain.Product) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Productos")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{
		"Código", "Nombre", "Categoría", "Proveedor", "Stock",
		"Precio", "Estado", "Tipo", "Fecha Creación",
	}
	addHeaderRow(sheet, headers)

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().Value = p.Code
		row.AddCell().Value = p.Name
		row.AddCell().Value = p.Category.Display()
		row.AddCell().Value = p.Supplier
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetFloat(p.Price.InexactFloat64())
		row.AddCell().Value = p.Status
		row.AddCell().Value = p.Type.Display()
		row.AddCell().Value = p.CreatedAt.Format("2006-01-02 15:04")
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook to buffer: %w", err)
	}
	return buffer.Bytes(), nil
}

func (h *ExportHandler) generatePatientsFile(patients []domain.Patient) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Pacientes")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{
		"Nombre", "Email", "Teléfono", "Estado", "Dirección",
		"Notas", "Total Compras", "Fecha Registro",
	}
	addHeaderRow(sheet, headers)

	for _, p := range patients {
		row := sheet.AddRow()
		row.AddCell().Value = p.Name
		row.AddCell().Value = p.Email
		row.AddCell().Value = p.Phone
		row.AddCell().Value = p.Status
		row.AddCell().Value = p.Address
		row.AddCell().Value = p.Notes
		row.AddCell().SetInt(p.TotalPurchases)
		row.AddCell().Value = p.CreatedAt.Format("2006-01-02 15:04")
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook to buffer: %w", err)
	}
	return buffer.Bytes(), nil
}

func addHeaderRow(sheet *xlsx.Sheet, headers []string) {
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range headers {
		// xlsx/v3 SetColWidth uses 1-based column indices
		sheet.SetColWidth(i+1, i+1, 18)
	}
}

func (h *ExportHandler) writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write export response",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
	}
}

func (h *ExportHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}
