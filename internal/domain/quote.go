// Package domain contains core business entities and rules.
package domain

// UnknownPlaceholder is rendered in place of absent metadata strings.
const UnknownPlaceholder = "未知"

// QuoteRecord is a single sentence of the dataset.
type QuoteRecord struct {
	// Sentence is the text content.
	Sentence string

	// Speaker is the attributed speaker. May be empty.
	Speaker string

	// ChapterTitle is the source chapter or context label. May be empty.
	ChapterTitle string
}

// Metadata holds the free-form descriptive fields of a dataset.
type Metadata struct {
	Title        string
	Author       string
	Cover        string
	Description  string
	Version      string
	Update       string
	Instructions string
	DataSource   string
	FormerName   string
}

// Dataset is the loaded quote collection. It is never mutated after load,
// so a single value can be shared by all request handlers.
type Dataset struct {
	Metadata

	// Data holds the records in document order. A nil entry stands for a
	// record the source document could not describe (JSON null).
	Data []*QuoteRecord
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}

	return len(d.Data)
}

// QuoteView is the projection of a record served by the random quote endpoint.
// Version and Update are only set when the service is configured to include them.
type QuoteView struct {
	Sentence     string
	Speaker      string
	ChapterTitle string
	Version      string
	Update       string
}

// Info is the projection of dataset-level metadata.
type Info struct {
	Metadata

	TotalSentences int
}

// Project returns the view of the record at index i.
// It fails with a ProjectionError instead of panicking on a bad index or nil record.
func (d *Dataset) Project(i int, withVersion bool) (*QuoteView, error) {
	if i < 0 || i >= d.Len() {
		return nil, NewProjectionError(i, "index out of range")
	}

	rec := d.Data[i]
	if rec == nil {
		return nil, NewProjectionError(i, "record is null")
	}

	view := &QuoteView{
		Sentence:     rec.Sentence,
		Speaker:      rec.Speaker,
		ChapterTitle: rec.ChapterTitle,
	}

	if withVersion {
		view.Version = d.Version
		view.Update = d.Update
	}

	return view, nil
}

// Info projects the dataset metadata. TotalSentences always equals Len().
func (d *Dataset) Info() *Info {
	return &Info{
		Metadata:       d.Metadata,
		TotalSentences: d.Len(),
	}
}

// OrUnknown returns s, or UnknownPlaceholder when s is empty.
func OrUnknown(s string) string {
	if s == "" {
		return UnknownPlaceholder
	}

	return s
}
