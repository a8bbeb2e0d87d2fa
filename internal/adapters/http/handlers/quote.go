package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/hitokoto-service/internal/app"
	"github.com/jsamuelsen/hitokoto-service/internal/domain"
)

// QuoteHandler handles the quote and statistics endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// RandomQuote handles GET /get (or / in the merged layout).
// Returns one record chosen uniformly at random.
//
// @Summary Get a random quote
// @Produce json
// @Success 200 {object} dto.QuoteResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /get [get]
func (h *QuoteHandler) RandomQuote(c *gin.Context) {
	ctx := c.Request.Context()

	view, err := h.service.RandomQuote(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.PureJSON(http.StatusOK, dto.NewQuoteResponse(view))
}

// Info handles GET /info (or /all in the merged layout).
// Returns the dataset metadata and the number of sentences.
//
// @Summary Get dataset statistics
// @Produce json
// @Success 200 {object} dto.InfoResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /info [get]
func (h *QuoteHandler) Info(c *gin.Context) {
	ctx := c.Request.Context()

	info, err := h.service.Info(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.PureJSON(http.StatusOK, dto.NewInfoResponse(info))
}

// fail writes the error body. Dataset metadata is only looked up when the
// dataset was reachable, so a failed lazy load is not retried twice per request.
func (h *QuoteHandler) fail(c *gin.Context, err error) {
	var md domain.Metadata

	ctx := c.Request.Context()
	if !domain.IsLoadFailure(err) && ctx.Err() == nil {
		md = h.service.Metadata(ctx)
	}

	dto.RespondWithError(c, err, md)
}
