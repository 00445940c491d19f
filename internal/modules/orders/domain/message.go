package domain

import (
	"errors"
	"net/url"
	"strings"
)

const (
	RestaurantName  = "Restaurante Acapulco"
	RestaurantPhone = "232 421 996"

	notInformed = "(não informado)"
	whatsAppURL = "https://wa.me/"
)

var ErrNoContactPhone = errors.New("order has no usable customer phone")

// MessageKind selects the customer notification template.
type MessageKind string

const (
	MessageAccepted MessageKind = "accepted"
	MessageEdited   MessageKind = "edited"
	MessageRejected MessageKind = "rejected"
)

func ParseMessageKind(raw string) (MessageKind, bool) {
	switch MessageKind(strings.ToLower(strings.TrimSpace(raw))) {
	case MessageAccepted:
		return MessageAccepted, true
	case MessageEdited, "adjusted":
		return MessageEdited, true
	case MessageRejected:
		return MessageRejected, true
	default:
		return "", false
	}
}

// ContactPhone reduces a stored phone to wa.me digits. Nine digits get the
// Portuguese prefix; anything shorter than ten digits is unusable.
func ContactPhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case digits == "":
		return "", false
	case len(digits) == 9:
		return "351" + digits, true
	case len(digits) >= 10:
		return digits, true
	default:
		return "", false
	}
}

// CustomerMessage renders the text sent to the customer for kind. The reason
// falls back to the admin notes stored on the order.
func CustomerMessage(o Order, kind MessageKind, reason string) string {
	name := strings.TrimSpace(o.CustomerName)
	if name == "" {
		name = "—"
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = strings.TrimSpace(o.AdminNotes)
	}
	hour := o.EffectiveTime()
	kindLabel := "Recolha"
	if o.IsDelivery() {
		kindLabel = "Entrega"
	}

	lines := []string{"Olá " + name + "! "}
	switch kind {
	case MessageAccepted:
		lines = append(lines, "O seu pedido (#"+o.ShortID()+") foi ACEITE pelo "+RestaurantName+".")
		if hour != "" {
			lines = append(lines, "Hora confirmada: "+hour)
		}
		lines = append(lines, "Tipo: "+kindLabel, "Total: "+o.Total.StringFixed(2)+"€")
		if reason != "" {
			lines = append(lines, "Obs do restaurante: "+reason)
		}
		lines = append(lines, "Obrigado pela preferência!")
	case MessageEdited:
		lines = append(lines, "O seu pedido (#"+o.ShortID()+") foi AJUSTADO pelo restaurante.")
		if hour != "" {
			lines = append(lines, "Hora atualizada: "+hour)
		}
		lines = append(lines,
			"Motivo: "+orDefault(reason, notInformed),
			"Por favor, entre em contacto com o restaurante para mais informações.",
			"Tel: "+RestaurantPhone,
		)
	default:
		lines = append(lines,
			"O seu pedido (#"+o.ShortID()+") foi REJEITADO pelo restaurante.",
			"Motivo: "+orDefault(reason, notInformed),
			"Por favor, entre em contacto com o restaurante para mais informações.",
			"Tel: "+RestaurantPhone,
		)
	}
	return strings.Join(lines, "\n")
}

// WhatsAppLink builds the wa.me deep link carrying the customer message.
func WhatsAppLink(o Order, kind MessageKind, reason string) (string, error) {
	phone, ok := ContactPhone(o.CustomerPhone)
	if !ok {
		return "", ErrNoContactPhone
	}
	text := CustomerMessage(o, kind, reason)
	// wa.me expects %20 rather than '+' for spaces
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return whatsAppURL + phone + "?text=" + escaped, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
