package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	ticketRule     = "====================================="
	ticketDivider  = "-------------------------------------"
	ticketHeading  = "       ACAPULCO TAKE AWAY"
	ticketNoPrice  = "S/C"
	ticketNameSize = 20
)

// Ticket renders the fixed-width kitchen ticket printed for an order.
func Ticket(o Order, printedAt time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	shortID := o.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	kind := "LEVANTAR"
	if o.IsDelivery() {
		kind = "ENTREGA"
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	line(ticketRule)
	line(ticketHeading)
	line(ticketRule)
	line("Pedido: #" + shortID)
	line("Data: " + printedAt.In(loc).Format("02/01/2006, 15:04:05"))
	line(ticketDivider)
	line("Cliente: " + orDefault(strings.TrimSpace(o.CustomerName), "—"))
	line("Endereço: " + orDefault(strings.TrimSpace(o.AddressLine), "—"))
	line("Hora: " + orDefault(o.EffectiveTime(), "—"))
	line("Tipo: " + kind)
	line(ticketDivider)
	line("ITENS:")
	for _, item := range o.Items {
		total := ticketNoPrice
		if item.Price.Valid {
			total = item.Price.Decimal.Mul(decimalFromInt(item.Quantity)).StringFixed(2)
		}
		line(fmt.Sprintf("%dx %-*s %s€", item.Quantity, ticketNameSize, item.Name, total))
	}
	line(ticketDivider)
	line("TOTAL: " + o.Total.StringFixed(2) + "€")
	line(ticketDivider)
	if obs := strings.TrimSpace(o.Observations); obs != "" {
		line("OBS: " + obs)
	}
	line(ticketRule)
	return b.String()
}

// TicketKey is the archive object key for an order's ticket.
func TicketKey(o Order, printedAt time.Time) string {
	return fmt.Sprintf("tickets/%s/%s-%d.txt", o.CreatedAt.UTC().Format(time.DateOnly), o.ID, printedAt.UTC().Unix())
}
