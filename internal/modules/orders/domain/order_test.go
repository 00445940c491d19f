package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	ordering "acapulcoWs/internal/modules/ordering/domain"
)

var fixedNow = time.Date(2026, 10, 15, 11, 45, 0, 0, time.UTC)

func sampleOrder() Order {
	return Order{
		ID:            "a1b2c3d4-e5f6-7890-abcd-ef0123456789",
		Status:        StatusPending,
		DeliveryType:  ordering.DeliveryTakeaway,
		CustomerName:  "Ana Silva",
		CustomerPhone: "912 345 678",
		RequestedTime: "12:30",
		Observations:  "Sem cebola",
		Items: []ordering.OrderItem{
			{ID: "m1", Name: "1/2 Dourada", Price: decimal.NewNullDecimal(decimal.RequireFromString("12")), Quantity: 2},
			{ID: "m2", Name: "Prato do chef", Quantity: 1},
		},
		Total:     decimal.RequireFromString("24"),
		CreatedAt: fixedNow,
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw    string
		want   Status
		wantOK bool
	}{
		{raw: "", want: StatusPending, wantOK: true},
		{raw: " Accepted ", want: StatusAccepted, wantOK: true},
		{raw: "aceite", want: StatusAccepted, wantOK: true},
		{raw: "cancelled", want: StatusRejected, wantOK: true},
		{raw: "ajustado", want: StatusAdjusted, wantOK: true},
		{raw: "teleported", wantOK: false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := NormalizeStatus(tc.raw)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("NormalizeStatus(%q) = %q,%v", tc.raw, got, ok)
			}
		})
	}
}

func TestSpellingsReadBackAsStatus(t *testing.T) {
	cases := []struct {
		status Status
		want   []string
	}{
		{status: StatusPending, want: []string{"pending", "pendente", "new", ""}},
		{status: StatusAdjusted, want: []string{"adjusted", "ajustado"}},
		{status: Status("archived"), want: []string{"archived"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			got := tc.status.Spellings()
			if len(got) != len(tc.want) {
				t.Fatalf("Spellings() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Spellings() = %v, want %v", got, tc.want)
				}
				if status, ok := NormalizeStatus(got[i]); ok && status != tc.status {
					t.Fatalf("%q reads back as %q", got[i], status)
				}
			}
			got[0] = "mutated"
			if tc.status.Spellings()[0] == "mutated" {
				t.Fatalf("Spellings must return a copy")
			}
		})
	}
}

func TestAcceptDefaultsToRequestedTime(t *testing.T) {
	o := sampleOrder()
	if err := o.Accept(fixedNow, "", " pronto às 12:30 "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != StatusAccepted || o.ConfirmedTime != "12:30" || o.AdminNotes != "pronto às 12:30" {
		t.Fatalf("unexpected order after accept %+v", o)
	}
	if o.AcceptedAt == nil || !o.AcceptedAt.Equal(fixedNow) {
		t.Fatalf("expected acceptedAt to be set")
	}
	if err := o.Accept(fixedNow, "", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected second accept to fail, got %v", err)
	}
}

func TestAcceptRejectsMalformedTime(t *testing.T) {
	o := sampleOrder()
	if err := o.Accept(fixedNow, "25:00", ""); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
	if o.Status != StatusPending {
		t.Fatalf("order must stay pending, got %s", o.Status)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	o := sampleOrder()
	if err := o.Reject(fixedNow, "  "); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
	if err := o.Reject(fixedNow, "Esgotado"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != StatusRejected || o.RejectedAt == nil {
		t.Fatalf("unexpected order after reject %+v", o)
	}
}

func TestAdjustKeepsStatus(t *testing.T) {
	o := sampleOrder()
	_ = o.Accept(fixedNow, "12:30", "")
	if err := o.Adjust(fixedNow, "Atraso na cozinha", "13:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != StatusAccepted || o.ConfirmedTime != "13:00" || o.AdminNotes != "Atraso na cozinha" {
		t.Fatalf("unexpected order after adjust %+v", o)
	}
	if err := o.Adjust(fixedNow, "", "13:00"); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
}

func TestTransitions(t *testing.T) {
	cases := []struct {
		name string
		from Status
		act  func(*Order) error
		want error
	}{
		{name: "prepare accepted", from: StatusAccepted, act: func(o *Order) error { return o.StartPreparing(fixedNow) }},
		{name: "prepare pending", from: StatusPending, act: func(o *Order) error { return o.StartPreparing(fixedNow) }, want: ErrInvalidTransition},
		{name: "complete preparing", from: StatusPreparing, act: func(o *Order) error { return o.Complete(fixedNow) }},
		{name: "complete rejected", from: StatusRejected, act: func(o *Order) error { return o.Complete(fixedNow) }, want: ErrInvalidTransition},
		{name: "reject done", from: StatusDone, act: func(o *Order) error { return o.Reject(fixedNow, "x") }, want: ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := sampleOrder()
			o.Status = tc.from
			err := tc.act(&o)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildBoard(t *testing.T) {
	statuses := []Status{StatusPending, StatusAdjusted, StatusAccepted, StatusPreparing, StatusRejected, StatusDone}
	orders := make([]Order, 0, len(statuses))
	for _, s := range statuses {
		o := sampleOrder()
		o.Status = s
		orders = append(orders, o)
	}
	board := BuildBoard("2026-10-15", orders)
	if len(board.Pending) != 2 || len(board.Active) != 2 || len(board.Rejected) != 1 {
		t.Fatalf("unexpected board %d/%d/%d", len(board.Pending), len(board.Active), len(board.Rejected))
	}
}

func TestShortID(t *testing.T) {
	if got := sampleOrder().ShortID(); got != "A1B2C3D4" {
		t.Fatalf("expected A1B2C3D4, got %s", got)
	}
}

func TestContactPhone(t *testing.T) {
	cases := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{raw: "912 345 678", want: "351912345678", wantOK: true},
		{raw: "+351 912 345 678", want: "351912345678", wantOK: true},
		{raw: "12345", wantOK: false},
		{raw: "", wantOK: false},
	}
	for _, tc := range cases {
		got, ok := ContactPhone(tc.raw)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("ContactPhone(%q) = %q,%v", tc.raw, got, ok)
		}
	}
}

func TestCustomerMessages(t *testing.T) {
	o := sampleOrder()
	_ = o.Accept(fixedNow, "12:45", "")

	accepted := CustomerMessage(o, MessageAccepted, "")
	want := strings.Join([]string{
		"Olá Ana Silva! ",
		"O seu pedido (#A1B2C3D4) foi ACEITE pelo Restaurante Acapulco.",
		"Hora confirmada: 12:45",
		"Tipo: Recolha",
		"Total: 24.00€",
		"Obrigado pela preferência!",
	}, "\n")
	if accepted != want {
		t.Fatalf("unexpected accepted message:\n%s", accepted)
	}

	rejected := CustomerMessage(o, MessageRejected, "")
	if !strings.Contains(rejected, "REJEITADO") || !strings.Contains(rejected, "Motivo: (não informado)") || !strings.HasSuffix(rejected, "Tel: 232 421 996") {
		t.Fatalf("unexpected rejected message:\n%s", rejected)
	}

	edited := CustomerMessage(o, MessageEdited, "Atraso")
	if !strings.Contains(edited, "Hora atualizada: 12:45") || !strings.Contains(edited, "Motivo: Atraso") {
		t.Fatalf("unexpected edited message:\n%s", edited)
	}
}

func TestWhatsAppLink(t *testing.T) {
	o := sampleOrder()
	link, err := WhatsAppLink(o, MessageRejected, "Fechados")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(link, "https://wa.me/351912345678?text=") {
		t.Fatalf("unexpected link %s", link)
	}
	if strings.Contains(link, "+") || !strings.Contains(link, "%20") {
		t.Fatalf("expected spaces encoded as %%20, got %s", link)
	}

	o.CustomerPhone = "123"
	if _, err := WhatsAppLink(o, MessageAccepted, ""); !errors.Is(err, ErrNoContactPhone) {
		t.Fatalf("expected ErrNoContactPhone, got %v", err)
	}
}

func TestTicket(t *testing.T) {
	o := sampleOrder()
	ticket := Ticket(o, fixedNow, time.UTC)

	for _, want := range []string{
		"       ACAPULCO TAKE AWAY\n",
		"Pedido: #a1b2c3d4\n",
		"Data: 15/10/2026, 11:45:00\n",
		"Endereço: —\n",
		"Hora: 12:30\n",
		"Tipo: LEVANTAR\n",
		"2x 1/2 Dourada          24.00€\n",
		"1x Prato do chef        S/C€\n",
		"TOTAL: 24.00€\n",
		"OBS: Sem cebola\n",
	} {
		if !strings.Contains(ticket, want) {
			t.Fatalf("ticket missing %q:\n%s", want, ticket)
		}
	}
}

func TestNewEventUsesBusinessDay(t *testing.T) {
	o := sampleOrder()
	o.CreatedAt = time.Date(2026, 7, 1, 23, 30, 0, 0, time.UTC)
	loc, err := time.LoadLocation("Europe/Lisbon")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	event := NewEvent(ActionCreated, o, loc)
	if event.Day != "2026-07-02" || event.OrderID != o.ID || event.Order == nil {
		t.Fatalf("unexpected event %+v", event)
	}
}
