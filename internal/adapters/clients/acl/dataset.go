package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/clients"
	"github.com/jsamuelsen/hitokoto-service/internal/domain"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
)

// datasetSourceName is the LoadError source for the remote document.
const datasetSourceName = "remote"

// utf8BOM is stripped from documents saved by editors that add it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// datasetDocument is the published heartbeat-engine JSON document.
// Never exposed outside the ACL.
type datasetDocument struct {
	Title        string         `json:"title"`
	Author       string         `json:"author"`
	Cover        string         `json:"cover"`
	Description  string         `json:"description"`
	Version      string         `json:"version"`
	Update       string         `json:"update"`
	Instructions string         `json:"instructions"`
	DataSource   string         `json:"data_source"`
	FormerName   string         `json:"former_name"`
	Data         []*quoteRecord `json:"data"`
}

type quoteRecord struct {
	Sentence     string `json:"sentence"`
	Speaker      string `json:"speaker"`
	ChapterTitle string `json:"chapter_title"`
}

// DecodeDataset parses a dataset document. Unknown fields are ignored and
// null entries in data are kept as nil records; the records are not validated.
func DecodeDataset(r io.Reader) (*domain.Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)

	var doc datasetDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	return translateDataset(&doc), nil
}

func translateDataset(doc *datasetDocument) *domain.Dataset {
	return &domain.Dataset{
		Metadata: domain.Metadata{
			Title:        doc.Title,
			Author:       doc.Author,
			Cover:        doc.Cover,
			Description:  doc.Description,
			Version:      doc.Version,
			Update:       doc.Update,
			Instructions: doc.Instructions,
			DataSource:   doc.DataSource,
			FormerName:   doc.FormerName,
		},
		Data: translateAll(doc.Data, translateRecord),
	}
}

// translateAll maps every item in order. Shape problems surface during
// decoding, so translation itself cannot fail.
func translateAll[E, D any](items []E, translate func(E) D) []D {
	out := make([]D, 0, len(items))

	for _, item := range items {
		out = append(out, translate(item))
	}

	return out
}

// translateRecord keeps null entries nil; they fail at projection.
func translateRecord(r *quoteRecord) *domain.QuoteRecord {
	if r == nil {
		return nil
	}

	return &domain.QuoteRecord{
		Sentence:     r.Sentence,
		Speaker:      r.Speaker,
		ChapterTitle: r.ChapterTitle,
	}
}

// DatasetClientConfig contains configuration for the dataset client.
type DatasetClientConfig struct {
	// Client is the HTTP client to use. Its BaseURL is the dataset document URL.
	Client *clients.Client

	// ServiceName names the origin in errors and health output.
	ServiceName string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// DatasetClient fetches the dataset document over HTTP.
// Implements ports.DatasetSource.
type DatasetClient struct {
	client  *clients.Client
	service string
	logger  *slog.Logger
}

// NewDatasetClient creates a new dataset client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewDatasetClient(cfg DatasetClientConfig) *DatasetClient {
	if cfg.Client == nil {
		panic("DatasetClient: Client is required")
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "dataset-origin"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DatasetClient{
		client:  cfg.Client,
		service: cfg.ServiceName,
		logger:  logger.With(slog.String("component", "acl.DatasetClient")),
	}
}

// ServiceName is the origin name used in domain errors.
func (c *DatasetClient) ServiceName() string {
	return c.service
}

// Name identifies this source in logs and load errors.
func (c *DatasetClient) Name() string {
	return datasetSourceName
}

// Load performs one GET of the document. Transport failures and non-2xx
// responses are returned as a LoadError wrapping the mapped domain error.
func (c *DatasetClient) Load(ctx context.Context) (*domain.Dataset, error) {
	c.logger.Log(ctx, logging.LevelTrace, "fetching dataset document")

	resp, err := c.client.Get(ctx, "")
	if err != nil {
		return nil, domain.NewLoadError(datasetSourceName, "fetch failed", MapHTTPError(nil, err, c.service, "fetch dataset"))
	}
	defer func() { _ = resp.Body.Close() }()

	if mapped := MapHTTPError(resp, nil, c.service, "fetch dataset"); mapped != nil {
		return nil, domain.NewLoadError(datasetSourceName, "fetch failed", mapped)
	}

	ds, err := DecodeDataset(resp.Body)
	if err != nil {
		return nil, domain.NewLoadError(datasetSourceName, "malformed document", err)
	}

	c.logger.DebugContext(ctx, "fetched dataset document",
		slog.String("title", ds.Title),
		slog.Int("sentences", ds.Len()),
	)

	return ds, nil
}
