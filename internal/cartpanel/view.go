package cartpanel

import (
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/shopspring/decimal"
)

const (
	Title        = "Shopping Cart"
	EmptyMessage = "Your cart is empty"
	TotalLabel   = "Total"
)

// Props is everything the panel needs for one render. The cart is owned
// elsewhere; Items is a read-only snapshot and CartID is its handle.
type Props struct {
	Visible bool
	CartID  string
	Items   []domain.CartItem
}

// View is either Empty (nothing to render) or Rendered.
type View interface {
	isView()
}

type Empty struct{}

type Rendered struct {
	Drawer Drawer
}

func (Empty) isView()    {}
func (Rendered) isView() {}

type Drawer struct {
	Title string
	Rows  []Row
	// EmptyMessage is set only when Rows is empty.
	EmptyMessage    string
	TotalLabel      string
	Total           string
	CheckoutEnabled bool
}

type Row struct {
	Key       domain.LineKey
	Name      string
	Image     string
	UnitPrice string
	Size      string
	Quantity  int32
}

// Build turns props into a view. It does no validation: the owner of the
// cart is expected to hand over well-formed items.
func Build(p Props) View {
	if !p.Visible {
		return Empty{}
	}

	rows := make([]Row, 0, len(p.Items))
	for _, it := range p.Items {
		rows = append(rows, Row{
			Key:       it.Key(),
			Name:      it.Name,
			Image:     it.Image,
			UnitPrice: FormatMoney(it.Price),
			Size:      it.Size,
			Quantity:  it.Quantity,
		})
	}

	d := Drawer{
		Title:           Title,
		Rows:            rows,
		TotalLabel:      TotalLabel,
		Total:           FormatMoney(domain.Total(p.Items)),
		CheckoutEnabled: len(p.Items) > 0,
	}
	if len(rows) == 0 {
		d.EmptyMessage = EmptyMessage
	}
	return Rendered{Drawer: d}
}

func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
