package dto

// Document is the generic write payload: the raw fields for one content
// document, validated against the collection schema before it touches the
// store.
type Document struct {
	Data map[string]any `json:"data"`
}
