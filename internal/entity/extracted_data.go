package entity

// ExtractedContent is the raw field set produced by a single extractor run.
// It is never modified after the extractor returns it.
type ExtractedContent struct {
	Title       string
	Description string
	Links       []string
	Images      []string // img[src]
	Media       []string // video source[src], then iframe[src]
}

// AllMedia returns every image, video source and iframe src in that order.
func (c *ExtractedContent) AllMedia() []string {
	out := make([]string, 0, len(c.Images)+len(c.Media))
	out = append(out, c.Images...)
	return append(out, c.Media...)
}

// ClassificationText is the text handed to the classifier: the description,
// or the title when the description is empty.
func (c *ExtractedContent) ClassificationText() string {
	if c.Description != "" {
		return c.Description
	}
	return c.Title
}
