package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// DashboardHandler serves the points aggregation endpoints.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

type summaryResponse struct {
	Summary domain.Summary `json:"summary"`
	Quarter int            `json:"quarter"`
	Year    int            `json:"fiscal_year"`
	Label   string         `json:"quarter_label"`
}

type leaderboardEntry struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Region   string `json:"region,omitempty"`
	Position string `json:"position,omitempty"`
	Points   int    `json:"points"`
	Percent  int    `json:"percent"`
}

type leaderboardResponse struct {
	Entries []leaderboardEntry `json:"entries"`
	Quarter int                `json:"quarter"`
	Year    int                `json:"fiscal_year"`
	Label   string             `json:"quarter_label"`
	Region  string             `json:"region,omitempty"`
}

// Summary handles GET /v1/dashboard/summary: the caller's own per-category
// rollup for one quarter.
//
// @Summary      Quarter points summary for the caller
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        quarter  query     int  false  "Fiscal quarter (1-4)"
// @Param        year     query     int  false  "Fiscal year"
// @Success      200      {object}  summaryResponse
// @Failure      400      {object}  map[string]string
// @Router       /v1/dashboard/summary [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	summary, window, err := h.service.Summary(c.Request().Context(), userID, queryInt(c, "quarter"), queryInt(c, "year"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaryResponse{
		Summary: summary,
		Quarter: window.Quarter,
		Year:    window.FiscalYear,
		Label:   window.Name(),
	})
}

// Leaderboard handles GET /v1/dashboard/leaderboard.
//
// @Summary      Quarter standings across a region
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        quarter  query     int     false  "Fiscal quarter (1-4)"
// @Param        year     query     int     false  "Fiscal year"
// @Param        region   query     string  false  "Region filter"
// @Success      200      {object}  leaderboardResponse
// @Failure      400      {object}  map[string]string
// @Router       /v1/dashboard/leaderboard [get]
func (h *DashboardHandler) Leaderboard(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	result, err := h.service.Leaderboard(c.Request().Context(), c.QueryParam("region"), queryInt(c, "quarter"), queryInt(c, "year"))
	if err != nil {
		return err
	}

	resp := leaderboardResponse{
		Entries: make([]leaderboardEntry, 0, len(result.Entries)),
		Quarter: result.Window.Quarter,
		Year:    result.Window.FiscalYear,
		Label:   result.Window.Name(),
		Region:  result.Region,
	}
	for _, e := range result.Entries {
		resp.Entries = append(resp.Entries, leaderboardEntry{
			UserID:   e.User.ID,
			Name:     e.User.FullName(),
			Region:   e.User.Region,
			Position: e.User.Position,
			Points:   e.Points,
			Percent:  e.Percent,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
