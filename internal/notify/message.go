package notify

import (
	"fmt"
	"strings"

	"github.com/inkpaper/atelier-api/internal/domain/order"
	"github.com/inkpaper/atelier-api/internal/domain/product"
)

const messageDivider = "—————————————"

// timestampLayout renders the order creation time in the notification.
const timestampLayout = "02 Jan 2006 15:04 MST"

// shortIDLen is how many leading characters of the order UUID appear in the
// notification. Enough to find the order in the admin list.
const shortIDLen = 8

// FormatOrderMessage builds the Markdown notification body for an order.
// Product-derived lines are conditionally appended: p may be nil (product
// deleted since the order was placed) and its optional fields may be absent.
func FormatOrderMessage(o *order.Order, p *product.Product) string {
	var b strings.Builder

	b.WriteString("🛒 *New Order Received!*\n\n")

	fmt.Fprintf(&b, "📦 *Product:* %s\n", o.ProductName)
	fmt.Fprintf(&b, "🔢 *Quantity:* %d\n", o.Quantity)
	if p != nil {
		fmt.Fprintf(&b, "💵 *Unit Price:* $%s\n", p.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "💰 *Total:* $%s\n", o.TotalPrice.StringFixed(2))
	if p != nil {
		if p.Category != "" {
			fmt.Fprintf(&b, "🏷 *Category:* %s\n", p.Category)
		}
		if p.Size != nil && *p.Size != "" {
			fmt.Fprintf(&b, "📐 *Size:* %s\n", *p.Size)
		}
		if p.PaperType != nil && *p.PaperType != "" {
			fmt.Fprintf(&b, "📜 *Paper:* %s\n", *p.PaperType)
		}
	}

	b.WriteString("\n" + messageDivider + "\n\n")

	fmt.Fprintf(&b, "👤 *Customer:* %s\n", o.CustomerName)
	fmt.Fprintf(&b, "📞 *Contact:* %s\n", o.CustomerContact)
	if o.Message != nil && *o.Message != "" {
		fmt.Fprintf(&b, "\n💬 *Message:* “%s”\n", *o.Message)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "📅 *Date:* %s\n", o.CreatedAt.Format(timestampLayout))
	fmt.Fprintf(&b, "🧾 *Order:* #%s\n", shortOrderID(o.ID))
	fmt.Fprintf(&b, "📌 *Status:* %s", strings.ToUpper(string(o.Status)))

	return b.String()
}

func shortOrderID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
