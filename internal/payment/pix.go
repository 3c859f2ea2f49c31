// Package payment hands a submitted order over to the customer's payment
// channel: a PIX charge code or a WhatsApp order message.
package payment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/alebarre/italicita/internal/pricing"
	"github.com/shopspring/decimal"
)

var ErrInvalidPixKey = errors.New("invalid pix key")

// Handoff is what payment receives for an order: the amount already includes the delivery fee.
type Handoff struct {
	OrderID     string
	OrderNumber string
	Amount      decimal.Decimal
}

type PixConfig struct {
	Key          string
	MerchantName string
	City         string
}

// PixGenerator renders BR Code style PIX charge strings. The payload follows
// the EMV TLV layout closely enough for display; it is not certified.
type PixGenerator struct {
	cfg PixConfig
}

func NewPixGenerator(cfg PixConfig) (*PixGenerator, error) {
	if !ValidKey(cfg.Key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPixKey, cfg.Key)
	}
	return &PixGenerator{cfg: cfg}, nil
}

// Payload builds the charge string for a handoff.
func (g *PixGenerator) Payload(h Handoff) string {
	merchant := tlv("00", "br.gov.bcb.pix") + tlv("01", g.cfg.Key)
	additional := tlv("05", referenceLabel(h.OrderNumber))

	var b strings.Builder
	b.WriteString(tlv("00", "01"))
	b.WriteString(tlv("26", merchant))
	b.WriteString(tlv("52", "0000"))
	b.WriteString(tlv("53", "986"))
	b.WriteString(tlv("54", pricing.Fixed(h.Amount)))
	b.WriteString(tlv("58", "BR"))
	b.WriteString(tlv("59", clip(g.cfg.MerchantName, 25)))
	b.WriteString(tlv("60", clip(g.cfg.City, 15)))
	b.WriteString(tlv("62", additional))
	b.WriteString("6304")

	payload := b.String()
	return payload + fmt.Sprintf("%04X", CRC16(payload))
}

// CopyPaste splits a payload into 50 character lines for display.
func CopyPaste(payload string) string {
	var lines []string
	for len(payload) > 50 {
		lines = append(lines, payload[:50])
		payload = payload[50:]
	}
	if payload != "" {
		lines = append(lines, payload)
	}
	return strings.Join(lines, "\n")
}

// CRC16 is CRC-16/CCITT-FALSE: polynomial 0x1021, initial value 0xFFFF.
func CRC16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

var (
	cpfOrCNPJ = regexp.MustCompile(`^\d{11}$|^\d{14}$`)
	phone     = regexp.MustCompile(`^\+?\d{10,13}$`)
	email     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	randomKey = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// ValidKey accepts CPF, CNPJ, phone, e-mail and random (UUID) keys.
func ValidKey(key string) bool {
	return cpfOrCNPJ.MatchString(key) || phone.MatchString(key) || email.MatchString(key) || randomKey.MatchString(key)
}

func tlv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

func clip(s string, n int) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

func referenceLabel(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	label := b.String()
	if label == "" {
		return "***"
	}
	if len(label) > 25 {
		label = label[:25]
	}
	return label
}
