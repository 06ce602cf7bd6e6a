package api

import (
	"errors"
	"net/http"

	"QuoteGate/internal/domain/models"
	"QuoteGate/internal/usecase"
	xhttp "QuoteGate/pkg/http"
	xlogger "QuoteGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

// QuotesEchoHandler exposes the gateway's HTTP surface over the quote service.
type QuotesEchoHandler struct {
	logger *xlogger.Logger
	svc    *usecase.QuoteService
}

func NewQuotesEchoHandler(logger *xlogger.Logger, svc *usecase.QuoteService) *QuotesEchoHandler {
	return &QuotesEchoHandler{logger: logger, svc: svc}
}

func (h *QuotesEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/quote/:symbol", h.Quote)
	e.POST("/quotes/batch", h.Batch)
	e.GET("/search/:query", h.Search)
}

// Health reports constant liveness; no dependencies are consulted.
func (h *QuotesEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, xhttp.HealthBody{
		Status:  "healthy",
		Service: "yfinance",
	})
}

func (h *QuotesEchoHandler) Quote(c echo.Context) error {
	symbol := c.Param("symbol")

	quote, err := h.svc.GetQuote(c.Request().Context(), symbol)
	if err != nil {
		return h.errorResponse(c, symbol, err)
	}
	return xhttp.SuccessResponse(c, quote)
}

// BatchRequest is the body of POST /quotes/batch. Surplus symbols past the
// batch ceiling are truncated downstream, not rejected here.
type BatchRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1"`
}

func (h *QuotesEchoHandler) Batch(c echo.Context) error {
	req := &BatchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.AppErrorResponse(c, verr)
	}

	result, err := h.svc.GetBatch(c.Request().Context(), req.Symbols)
	if err != nil {
		return h.errorResponse(c, "", err)
	}
	return xhttp.SuccessResponse(c, result)
}

// Search never fails: any fault inside the lookup degrades to an empty list.
func (h *QuotesEchoHandler) Search(c echo.Context) error {
	results := h.svc.Search(c.Request().Context(), c.Param("query"))
	return c.JSON(http.StatusOK, results)
}

// errorResponse maps domain error kinds onto the gateway's status contract.
func (h *QuotesEchoHandler) errorResponse(c echo.Context, symbol string, err error) error {
	switch {
	case errors.Is(err, models.ErrRateLimited):
		return xhttp.AppErrorResponse(c, xhttp.RateLimitedError("Rate limit exceeded, please try again later"))
	case errors.Is(err, models.ErrNoData):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("Symbol not found"))
	case errors.Is(err, models.ErrInvalidRequest):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	default:
		h.logger.Error("quote request failed",
			xlogger.String("symbol", symbol),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, xhttp.InternalError(err.Error()))
	}
}
