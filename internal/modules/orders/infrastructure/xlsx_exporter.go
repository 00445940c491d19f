package infrastructure

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"acapulcoWs/internal/modules/orders/application/port"
	"acapulcoWs/internal/modules/orders/domain"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{
	"Pedido", "Criado", "Estado", "Tipo", "Cliente", "Telefone", "Morada",
	"Hora pedida", "Hora confirmada", "Itens", "Total", "Observações", "Notas admin",
}

// XLSXExporter writes a day's orders to a single-sheet workbook.
type XLSXExporter struct {
	loc *time.Location
}

func NewXLSXExporter(loc *time.Location) *XLSXExporter {
	if loc == nil {
		loc = time.UTC
	}
	return &XLSXExporter{loc: loc}
}

func (e *XLSXExporter) Export(w io.Writer, day string, orders []domain.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Pedidos " + day)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.ShortID())
		row.AddCell().SetString(o.CreatedAt.In(e.loc).Format("2006-01-02 15:04"))
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(string(o.DeliveryType))
		row.AddCell().SetString(o.CustomerName)
		row.AddCell().SetString(o.CustomerPhone)
		row.AddCell().SetString(o.AddressLine)
		row.AddCell().SetString(o.RequestedTime)
		row.AddCell().SetString(o.ConfirmedTime)
		row.AddCell().SetString(itemsSummary(o))
		total, _ := o.Total.Float64()
		row.AddCell().SetFloatWithFormat(total, "0.00")
		row.AddCell().SetString(o.Observations)
		row.AddCell().SetString(o.AdminNotes)
	}

	return file.Write(w)
}

func itemsSummary(o domain.Order) string {
	parts := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, "; ")
}

var _ port.Exporter = (*XLSXExporter)(nil)
