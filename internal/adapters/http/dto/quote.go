package dto

import (
	"github.com/jsamuelsen/hitokoto-service/internal/domain"
)

// QuoteResponse is the body of a random quote.
type QuoteResponse struct {
	Sentence     string `json:"sentence"`
	Speaker      string `json:"speaker"`
	ChapterTitle string `json:"chapter_title"`
	Version      string `json:"version,omitempty"`
	Update       string `json:"update,omitempty"`
}

// NewQuoteResponse converts a domain view to its response body.
func NewQuoteResponse(v *domain.QuoteView) *QuoteResponse {
	return &QuoteResponse{
		Sentence:     v.Sentence,
		Speaker:      v.Speaker,
		ChapterTitle: v.ChapterTitle,
		Version:      v.Version,
		Update:       v.Update,
	}
}

// InfoResponse is the body of the statistics endpoint.
type InfoResponse struct {
	Title          string `json:"title"`
	Author         string `json:"author"`
	Cover          string `json:"cover"`
	Description    string `json:"description"`
	TotalSentences int    `json:"total_sentences"`
	Version        string `json:"version"`
	Update         string `json:"update"`
	Instructions   string `json:"instructions"`
	DataSource     string `json:"data_source"`
	FormerName     string `json:"former_name"`
}

// NewInfoResponse converts dataset info to its response body.
// Absent metadata strings are rendered as the placeholder.
func NewInfoResponse(info *domain.Info) *InfoResponse {
	return &InfoResponse{
		Title:          domain.OrUnknown(info.Title),
		Author:         domain.OrUnknown(info.Author),
		Cover:          domain.OrUnknown(info.Cover),
		Description:    domain.OrUnknown(info.Description),
		TotalSentences: info.TotalSentences,
		Version:        domain.OrUnknown(info.Version),
		Update:         domain.OrUnknown(info.Update),
		Instructions:   domain.OrUnknown(info.Instructions),
		DataSource:     domain.OrUnknown(info.DataSource),
		FormerName:     domain.OrUnknown(info.FormerName),
	}
}
