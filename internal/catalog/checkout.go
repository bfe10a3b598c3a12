package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"balalaika/internal/domain"
)

// PurchaseMessage is the pre-filled chat text for p.
func PurchaseMessage(p domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola Balalaika's Perfums, estoy interesado en el perfume: %s de la marca %s.", p.Name, p.Brand)
	fmt.Fprintf(&b, " Precio: $%s", p.SalePrice().StringFixed(2))
	if p.PriceCordobas > 0 {
		fmt.Fprintf(&b, " / C$%s", p.SalePriceCordobas().StringFixed(2))
	}
	if p.HasDiscount() {
		fmt.Fprintf(&b, " (%s%% de descuento)", strconv.FormatFloat(domain.ClampDiscount(p.Discount), 'f', -1, 64))
	}
	b.WriteString(".")
	return b.String()
}

// PurchaseLink is the WhatsApp deep link for p, or "" when p is out of stock.
func PurchaseLink(contact string, p domain.Product) string {
	if p.OutOfStock {
		return ""
	}
	text := strings.ReplaceAll(url.QueryEscape(PurchaseMessage(p)), "+", "%20")
	return "https://wa.me/" + digits(contact) + "?text=" + text
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
