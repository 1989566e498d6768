package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// ObjectiveHandler handles HTTP requests for objective operations.
type ObjectiveHandler struct {
	service ports.ObjectiveService
}

func NewObjectiveHandler(service ports.ObjectiveService) *ObjectiveHandler {
	return &ObjectiveHandler{service: service}
}

// Create handles POST /v1/objectives.
//
// @Summary      Submit a new objective
// @Tags         objectives
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createObjectiveRequest  true  "Objective details"
// @Success      201   {object}  createObjectiveResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/objectives [post]
func (h *ObjectiveHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createObjectiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateObjectiveInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Link:           req.Link,
		ProgressStatus: req.ProgressStatus,
		UserID:         userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createObjectiveResponse{
		Objective: result.Objective,
		Warning:   result.CapWarning,
	})
}

// Get handles GET /v1/objectives/:id.
//
// @Summary      Get one objective
// @Tags         objectives
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Objective id"
// @Success      200  {object}  objectiveResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/objectives/{id} [get]
func (h *ObjectiveHandler) Get(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}
	obj, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, objectiveResponse{Objective: obj})
}

// Update handles PUT /v1/objectives/:id.
//
// @Summary      Edit an objective
// @Tags         objectives
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Objective id"
// @Param        body  body      updateObjectiveRequest  true  "Fields to change"
// @Success      200   {object}  objectiveResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/objectives/{id} [put]
func (h *ObjectiveHandler) Update(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateObjectiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	obj, err := h.service.Update(c.Request().Context(), ports.UpdateObjectiveInput{
		ID:             c.Param("id"),
		ActorID:        userID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Link:           req.Link,
		ProgressStatus: req.ProgressStatus,
		ApprovalStatus: req.ApprovalStatus,
		Points:         req.Points,
		CreatedAt:      req.CreatedAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, objectiveResponse{Objective: obj})
}

// Review handles POST /v1/objectives/:id/review. Manager only.
//
// @Summary      Approve or reject an objective
// @Tags         objectives
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Objective id"
// @Param        body  body      reviewObjectiveRequest  true  "Decision and optional points"
// @Success      200   {object}  objectiveResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/objectives/{id}/review [post]
func (h *ObjectiveHandler) Review(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req reviewObjectiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	obj, err := h.service.Review(c.Request().Context(), ports.ReviewObjectiveInput{
		ID:      c.Param("id"),
		ActorID: userID,
		Approve: req.Decision == "approve",
		Points:  req.Points,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, objectiveResponse{Objective: obj})
}

// Delete handles DELETE /v1/objectives/:id.
//
// @Summary      Delete an objective
// @Tags         objectives
// @Security     BearerAuth
// @Param        id  path  string  true  "Objective id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/objectives/{id} [delete]
func (h *ObjectiveHandler) Delete(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/objectives.
//
// @Summary      List the caller's objectives for one quarter
// @Tags         objectives
// @Produce      json
// @Security     BearerAuth
// @Param        quarter  query     int     false  "Fiscal quarter (1-4)"
// @Param        year     query     int     false  "Fiscal year"
// @Param        sort     query     string  false  "Sort field"
// @Param        dir      query     string  false  "asc or desc"
// @Success      200      {object}  listMineResponse
// @Router       /v1/objectives [get]
func (h *ObjectiveHandler) ListMine(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListMine(c.Request().Context(), ports.ListMineInput{
		UserID:  userID,
		Quarter: queryInt(c, "quarter"),
		Year:    queryInt(c, "year"),
		SortBy:  c.QueryParam("sort"),
		SortDir: c.QueryParam("dir"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listMineResponse{
		Pending:  result.Pending,
		Approved: result.Approved,
		Rejected: result.Rejected,
		Quarter:  result.Window.Quarter,
		Year:     result.Window.FiscalYear,
		Label:    result.Window.Name(),
	})
}

// ListTeam handles GET /v1/team/objectives.
//
// @Summary      List approved objectives across the team
// @Tags         objectives
// @Produce      json
// @Security     BearerAuth
// @Param        quarter   query     int     false  "Fiscal quarter (1-4)"
// @Param        year      query     int     false  "Fiscal year"
// @Param        category  query     string  false  "Category filter"
// @Param        region    query     string  false  "Region filter"
// @Param        employee  query     string  false  "Employee id filter"
// @Param        search    query     string  false  "Title substring"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  listTeamResponse
// @Router       /v1/team/objectives [get]
func (h *ObjectiveHandler) ListTeam(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	result, err := h.service.ListTeam(c.Request().Context(), ports.ListTeamInput{
		Quarter:    queryInt(c, "quarter"),
		Year:       queryInt(c, "year"),
		Category:   c.QueryParam("category"),
		Region:     c.QueryParam("region"),
		EmployeeID: c.QueryParam("employee"),
		Search:     c.QueryParam("search"),
		SortBy:     c.QueryParam("sort"),
		SortDir:    c.QueryParam("dir"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listTeamResponse{
		Items:      teamItems(result.Items),
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
		Quarter:    result.Window.Quarter,
		Year:       result.Window.FiscalYear,
	})
}

// ListPending handles GET /v1/objectives/pending. Manager only.
//
// @Summary      List objectives awaiting approval
// @Tags         objectives
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   objectiveResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/objectives/pending [get]
func (h *ObjectiveHandler) ListPending(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	pending, err := h.service.ListPending(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pending)
}

// queryInt parses an optional integer query parameter, treating absent or
// malformed values as zero.
func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
