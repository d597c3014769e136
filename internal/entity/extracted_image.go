package entity

// ExtractedImage is one accepted photograph persisted for a document.
type ExtractedImage struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Page   int    `json:"page"` // 1-based source page
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int64  `json:"bytes"`
}
