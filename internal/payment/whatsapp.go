package payment

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/pricing"
)

// WhatsApp renders order messages addressed to the restaurant's number.
type WhatsApp struct {
	phone string
}

func NewWhatsApp(phone string) *WhatsApp {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return &WhatsApp{phone: digits}
}

func (w *WhatsApp) Message(o *domain.Order) string {
	var b strings.Builder

	b.WriteString("🍝 *PEDIDO ITALICITA DELIVERY* 🍝\n\n")
	fmt.Fprintf(&b, "*Nº do Pedido:* %s\n\n", o.Number)

	b.WriteString("*ITENS DO PEDIDO:*\n")
	for _, l := range o.Items {
		fmt.Fprintf(&b, "• %dx %s%s - %s\n", l.Quantity, l.Name, describe(l.Selection), pricing.Format(l.Subtotal()))
	}

	b.WriteString("\n*RESUMO DO PEDIDO:*\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", pricing.Format(o.Subtotal))
	fmt.Fprintf(&b, "Taxa de entrega: %s\n", pricing.Format(o.DeliveryFee))
	fmt.Fprintf(&b, "*Total: %s*\n\n", pricing.Format(o.Total))

	b.WriteString("*DADOS DE ENTREGA:*\n")
	fmt.Fprintf(&b, "Nome: %s\n", o.Delivery.Name)
	fmt.Fprintf(&b, "Endereço: %s\n", o.Delivery.Address)
	if o.Delivery.Complement != "" {
		fmt.Fprintf(&b, "Complemento: %s\n", o.Delivery.Complement)
	}
	fmt.Fprintf(&b, "Telefone: %s\n\n", o.Delivery.Phone)

	b.WriteString("*FORMA DE PAGAMENTO:*\n")
	if o.PaymentMethod == domain.PaymentMethodPix {
		b.WriteString("PIX\n\n")
		b.WriteString("💰 *INSTRUÇÕES PIX:*\n")
		b.WriteString("1. Aguarde o código PIX\n")
		b.WriteString("2. Realize o pagamento\n")
		b.WriteString("3. Seu pedido será preparado após confirmação\n")
	} else {
		b.WriteString("Cartão\n\n")
		b.WriteString("💳 *PAGAMENTO VIA CARTÃO:*\n")
		b.WriteString("Pagamento processado com sucesso!\n")
	}

	b.WriteString("\n⏰ *TEMPO DE ENTREGA:*\n")
	b.WriteString("Previsão: 30-45 minutos\n\n")
	b.WriteString("📞 *DÚVIDAS?* Entre em contato!\n")

	return b.String()
}

// Link returns a wa.me link that opens a chat with the message prefilled.
func (w *WhatsApp) Link(o *domain.Order) string {
	text := strings.ReplaceAll(url.QueryEscape(w.Message(o)), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", w.phone, text)
}

func describe(sel domain.Selection) string {
	var parts []string
	if sel.Pasta != nil {
		parts = append(parts, sel.Pasta.Name)
	}
	if sel.Size.ID != domain.DefaultSize.ID {
		parts = append(parts, sel.Size.Name)
	}
	if sel.Sauce != nil {
		parts = append(parts, sel.Sauce.Name)
	}
	for _, a := range sel.AddOns {
		parts = append(parts, "+"+a.Name)
	}
	for _, e := range sel.Extras {
		parts = append(parts, "+"+e.Name)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
