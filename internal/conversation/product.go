package conversation

// Product is one opaque product record attached to an assistant turn.
// The shape mirrors the backend's response; the store carries it
// untouched and the renderer decides whether to show it (current UI
// policy suppresses cards in favor of inline links).
type Product struct {
	ID             string           `json:"id"`
	Description    string           `json:"description"`
	Category       string           `json:"category"`
	Specifications []map[string]any `json:"specifications"`
	ProductData    []map[string]any `json:"product_data"`
	Link           string           `json:"link"`
	EAN            string           `json:"ean,omitempty"`
}
