package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// ReportHandler renders leaderboard and team exports as CSV or XLSX
// downloads. Manager only; the exports mirror what the dashboard shows.
type ReportHandler struct {
	dashboard  ports.DashboardService
	objectives ports.ObjectiveService
}

func NewReportHandler(dashboard ports.DashboardService, objectives ports.ObjectiveService) *ReportHandler {
	return &ReportHandler{dashboard: dashboard, objectives: objectives}
}

// LeaderboardCSV handles GET /v1/reports/leaderboard.csv.
//
// @Summary      Export the quarter leaderboard as CSV
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        quarter  query  int     false  "Fiscal quarter (1-4)"
// @Param        year     query  int     false  "Fiscal year"
// @Param        region   query  string  false  "Region filter"
// @Success      200
// @Router       /v1/reports/leaderboard.csv [get]
func (h *ReportHandler) LeaderboardCSV(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	result, err := h.dashboard.Leaderboard(c.Request().Context(), c.QueryParam("region"), queryInt(c, "quarter"), queryInt(c, "year"))
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("leaderboard_q%d_fy%d.csv", result.Window.Quarter, result.Window.FiscalYear)
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"Name", "Region", "Position", "Points", "Percent"}); err != nil {
		return err
	}
	for _, e := range result.Entries {
		record := []string{
			e.User.FullName(),
			e.User.Region,
			e.User.Position,
			strconv.Itoa(e.Points),
			strconv.Itoa(e.Percent),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LeaderboardXLSX handles GET /v1/reports/leaderboard.xlsx.
//
// @Summary      Export the quarter leaderboard as XLSX
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        quarter  query  int     false  "Fiscal quarter (1-4)"
// @Param        year     query  int     false  "Fiscal year"
// @Param        region   query  string  false  "Region filter"
// @Success      200
// @Router       /v1/reports/leaderboard.xlsx [get]
func (h *ReportHandler) LeaderboardXLSX(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	result, err := h.dashboard.Leaderboard(c.Request().Context(), c.QueryParam("region"), queryInt(c, "quarter"), queryInt(c, "year"))
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Leaderboard"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	headers := []string{"Name", "Region", "Position", "Points", "Percent"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}
	for row, e := range result.Entries {
		values := []any{e.User.FullName(), e.User.Region, e.User.Position, e.Points, e.Percent}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("leaderboard_q%d_fy%d.xlsx", result.Window.Quarter, result.Window.FiscalYear)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	_, err = f.WriteTo(c.Response())
	return err
}

// TeamCSV handles GET /v1/reports/objectives.csv: every approved
// objective in the window with creator details.
//
// @Summary      Export approved team objectives as CSV
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        quarter  query  int     false  "Fiscal quarter (1-4)"
// @Param        year     query  int     false  "Fiscal year"
// @Param        region   query  string  false  "Region filter"
// @Success      200
// @Router       /v1/reports/objectives.csv [get]
func (h *ReportHandler) TeamCSV(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	result, err := h.objectives.ListTeam(c.Request().Context(), ports.ListTeamInput{
		Quarter: queryInt(c, "quarter"),
		Year:    queryInt(c, "year"),
		Region:  c.QueryParam("region"),
		Limit:   100,
	})
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("objectives_q%d_fy%d.csv", result.Window.Quarter, result.Window.FiscalYear)
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"Employee", "Region", "Title", "Category", "Points", "Progress", "Created"}); err != nil {
		return err
	}
	for _, item := range result.Items {
		record := []string{
			item.EmployeeName,
			item.Region,
			item.Objective.Title,
			item.Objective.Category,
			strconv.Itoa(item.Objective.PointValue()),
			item.Objective.ProgressStatus,
			item.Objective.CreatedAt.Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// TeamXLSX handles GET /v1/reports/objectives.xlsx: every approved
// objective in the window with creator details.
//
// @Summary      Export approved team objectives as XLSX
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        quarter  query  int     false  "Fiscal quarter (1-4)"
// @Param        year     query  int     false  "Fiscal year"
// @Param        region   query  string  false  "Region filter"
// @Success      200
// @Router       /v1/reports/objectives.xlsx [get]
func (h *ReportHandler) TeamXLSX(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	result, err := h.objectives.ListTeam(c.Request().Context(), ports.ListTeamInput{
		Quarter: queryInt(c, "quarter"),
		Year:    queryInt(c, "year"),
		Region:  c.QueryParam("region"),
		Limit:   100,
	})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Objectives"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	headers := []string{"Employee", "Region", "Title", "Category", "Points", "Progress", "Created"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}
	for row, item := range result.Items {
		values := []any{
			item.EmployeeName,
			item.Region,
			item.Objective.Title,
			item.Objective.Category,
			item.Objective.PointValue(),
			item.Objective.ProgressStatus,
			item.Objective.CreatedAt.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("objectives_q%d_fy%d.xlsx", result.Window.Quarter, result.Window.FiscalYear)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	_, err = f.WriteTo(c.Response())
	return err
}
