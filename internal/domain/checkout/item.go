package checkout

// Category is the closed set of purchasable unit kinds.
type Category string

const (
	CategoryTransport  Category = "Transport"
	CategoryStay       Category = "Stay"
	CategoryExperience Category = "Experience"
	CategoryFee        Category = "Fee"
	CategoryFood       Category = "Food"
	CategoryGroceries  Category = "Groceries"
)

// LineItem is one priced, selectable unit in a checkout cart. Derived
// per-item pricing (nightly rate x nights, quantity x unit price) is resolved
// by whoever constructs the item; Price is the final amount in the session's
// base currency unit.
type LineItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Price    float64  `json:"price"`
	Meta     string   `json:"meta,omitempty"`
}
