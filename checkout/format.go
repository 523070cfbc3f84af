package checkout

import "strings"

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber keeps up to 16 digits and groups them by four.
func FormatCardNumber(raw string) string {
	d := digitsOnly(raw)
	if len(d) > 16 {
		d = d[:16]
	}

	var b strings.Builder
	for i := 0; i < len(d); i++ {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

// FormatExpiry keeps up to four digits and inserts the slash after the month.
func FormatExpiry(raw string) string {
	d := digitsOnly(raw)
	if len(d) > 4 {
		d = d[:4]
	}
	if len(d) > 2 {
		return d[:2] + "/" + d[2:]
	}
	return d
}

// FormatCVV keeps up to four digits.
func FormatCVV(raw string) string {
	d := digitsOnly(raw)
	if len(d) > 4 {
		d = d[:4]
	}
	return d
}
