package handlers

import (
	_ "embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
)

const htmlContentType = "text/html; charset=utf-8"

//go:embed index.html
var defaultIndex []byte

// SiteConfig configures the SiteHandler.
type SiteConfig struct {
	// IndexPath is an HTML file read on every request to /. When empty or
	// missing, the built-in page is served.
	IndexPath string

	// FaviconURL is the redirect target for /favicon.ico. Empty disables the route.
	FaviconURL string
}

// SiteHandler serves the landing page, the favicon redirect and the
// fallback redirect for unknown paths.
type SiteHandler struct {
	indexPath  string
	faviconURL string
}

// NewSiteHandler creates a new site handler.
func NewSiteHandler(cfg SiteConfig) *SiteHandler {
	return &SiteHandler{
		indexPath:  cfg.IndexPath,
		faviconURL: cfg.FaviconURL,
	}
}

// Index handles GET /. The page file is re-read on each request so it can be
// edited without a restart.
func (h *SiteHandler) Index(c *gin.Context) {
	page, err := h.readIndex()
	if err != nil {
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "failed to read index page",
			slog.String("path", h.indexPath),
			slog.Any("error", err),
		)
		c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte(dto.MessageInternal))

		return
	}

	c.Data(http.StatusOK, htmlContentType, page)
}

func (h *SiteHandler) readIndex() ([]byte, error) {
	if h.indexPath == "" {
		return defaultIndex, nil
	}

	page, err := os.ReadFile(h.indexPath)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultIndex, nil
	}

	return page, err
}

// HasFavicon reports whether the favicon route should be registered.
func (h *SiteHandler) HasFavicon() bool {
	return h.faviconURL != ""
}

// Favicon handles GET /favicon.ico with a 302 to the configured icon.
func (h *SiteHandler) Favicon(c *gin.Context) {
	c.Redirect(http.StatusFound, h.faviconURL)
}

// Fallback redirects any unmatched request to /.
func (h *SiteHandler) Fallback(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}
