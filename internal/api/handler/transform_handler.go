package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lrms/access-portal/internal/core/transform"
)

// TransformHandler demos the value-transformation catalog over one input.
type TransformHandler struct{}

func NewTransformHandler() *TransformHandler {
	return &TransformHandler{}
}

type transformResponse struct {
	Input       string  `json:"input"`
	Capitalized string  `json:"capitalized"`
	Truncated   string  `json:"truncated"`
	Currency    string  `json:"currency"`
	Multiplied  float64 `json:"multiplied"`
	TimeAgo     string  `json:"time_ago"`
}

// Demo applies every transform to the query inputs.
//
// @Summary      Transform catalog demo
// @Tags         transforms
// @Produce      json
// @Param        text    query     string  false  "Text input"
// @Param        limit   query     int     false  "Truncation limit"
// @Param        amount  query     number  false  "Numeric input"
// @Success      200     {object}  transformResponse
// @Router       /api/transforms [get]
func (h *TransformHandler) Demo(c echo.Context) error {
	text := c.QueryParam("text")
	if text == "" {
		text = "the quick brown fox jumps over the lazy dog"
	}

	limit := 20
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}

	amount := 99.5
	if v, err := strconv.ParseFloat(c.QueryParam("amount"), 64); err == nil {
		amount = v
	}

	return c.JSON(http.StatusOK, transformResponse{
		Input:       text,
		Capitalized: transform.Capitalize(text),
		Truncated:   transform.Truncate(text, limit, "..."),
		Currency:    transform.Currency(amount, "$", 2),
		Multiplied:  transform.Multiply(amount, 2),
		TimeAgo:     transform.TimeAgo(time.Now().Add(-90*time.Second), time.Now()),
	})
}
