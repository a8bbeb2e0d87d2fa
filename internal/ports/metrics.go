package ports

// QuoteRecorder counts served quote requests by result label.
type QuoteRecorder interface {
	QuoteServed(result string)
}

// LoadRecorder counts dataset load attempts per source.
type LoadRecorder interface {
	DatasetLoaded(source string, err error)
}
