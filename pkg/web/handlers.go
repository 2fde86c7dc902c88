package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukex/flowdesk/pkg/describe"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/registry"
	"github.com/dukex/flowdesk/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	flowService      *services.Flow
	dashboardService *services.Dashboard
	validator        *validator.Validate
	registry         *registry.Registry
	logger           *slog.Logger
}

func NewAPIHandlers(
	flowService *services.Flow,
	dashboardService *services.Dashboard,
	validator *validator.Validate,
	registry *registry.Registry,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		flowService:      flowService,
		dashboardService: dashboardService,
		validator:        validator,
		registry:         registry,
		logger:           logger,
	}
}

// Register mounts every API route on app.
func (h *APIHandlers) Register(app *fiber.App) {
	f := app.Group("/flows")
	f.Get("/", h.GetFlows)
	f.Post("/", h.CreateFlow)
	f.Get("/:id", h.GetFlow)
	f.Patch("/:id", h.UpdateFlow)
	f.Delete("/:id", h.DeleteFlow)
	f.Post("/:id/activate", h.ActivateFlow)
	f.Post("/:id/deactivate", h.DeactivateFlow)
	f.Post("/:id/instantiate", h.InstantiateFlow)

	app.Get("/dashboard/summary", h.GetSummary)

	app.Get("/catalog/triggers", h.GetTriggerCatalog)
	app.Get("/catalog/actions", h.GetActionCatalog)

	app.Post("/describe/trigger", h.DescribeTrigger)
	app.Post("/describe/action", h.DescribeAction)

	app.Get("/health", h.HealthCheck)
}

func (h *APIHandlers) GetFlows(c fiber.Ctx) error {
	req, err := parseListFlowsRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.flowService.ListFlows(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	flows := make([]FlowResponse, 0, len(result.Flows))
	for _, flow := range result.Flows {
		flows = append(flows, NewFlowResponse(flow))
	}

	return c.JSON(ListFlowsResponse{
		Flows:       flows,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
		Pagination:  Pagination{Limit: req.Limit, Offset: req.Offset},
		Sorting:     Sorting{SortBy: req.SortBy, SortOrder: req.SortOrder},
	})
}

// parseListFlowsRequest parses query parameters for listing flows.
func parseListFlowsRequest(c fiber.Ctx) (*services.ListFlowsRequest, error) {
	req := &services.ListFlowsRequest{
		OrganizationID: c.Query("organization_id"),
		EventID:        c.Query("event_id"),
		SortBy:         c.Query("sort_by"),
		SortOrder:      c.Query("sort_order"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	active, err := queryBool(c, "active")
	if err != nil {
		return nil, err
	}

	template, err := queryBool(c, "template")
	if err != nil {
		return nil, err
	}

	req.Active = active
	req.Template = template

	// Mirror the service defaults so the response echoes what was applied.
	if req.Limit <= 0 {
		req.Limit = persistence.DefaultListLimit
	}

	req.Limit = min(req.Limit, persistence.MaxListLimit)
	req.Offset = max(req.Offset, 0)

	if req.SortBy == "" {
		req.SortBy = persistence.SortByCreatedAt
	}

	if req.SortOrder == "" {
		req.SortOrder = persistence.SortOrderDesc
	}

	return req, nil
}

func queryBool(c fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}

	return &value, nil
}

func (h *APIHandlers) GetFlow(c fiber.Ctx) error {
	flow, err := h.flowService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(NewFlowResponse(flow))
}

func (h *APIHandlers) CreateFlow(c fiber.Ctx) error {
	var req CreateFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	triggers, err := toTriggers(req.Triggers)
	if err != nil {
		return badRequest(c, err.Error())
	}

	actions, err := toActions(req.Actions)
	if err != nil {
		return badRequest(c, err.Error())
	}

	flow := &models.Flow{
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: req.OrganizationID,
		EventID:        req.EventID,
		Template:       req.Template,
		Active:         req.Active,
		Triggers:       triggers,
		Actions:        actions,
	}

	created, err := h.flowService.Create(c.Context(), flow, actor(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(NewFlowResponse(created))
}

func (h *APIHandlers) UpdateFlow(c fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.flowService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Triggers != nil {
		existing.Triggers, err = toTriggers(req.Triggers)
		if err != nil {
			return badRequest(c, err.Error())
		}
	}

	if req.Actions != nil {
		existing.Actions, err = toActions(req.Actions)
		if err != nil {
			return badRequest(c, err.Error())
		}
	}

	updated, err := h.flowService.Update(c.Context(), id, existing, actor(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(NewFlowResponse(updated))
}

func (h *APIHandlers) DeleteFlow(c fiber.Ctx) error {
	err := h.flowService.Delete(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ActivateFlow(c fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *APIHandlers) DeactivateFlow(c fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *APIHandlers) setActive(c fiber.Ctx, active bool) error {
	flow, err := h.flowService.SetActive(c.Context(), c.Params("id"), active, actor(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(NewFlowResponse(flow))
}

func (h *APIHandlers) InstantiateFlow(c fiber.Ctx) error {
	var req InstantiateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	instance, err := h.flowService.Instantiate(c.Context(), c.Params("id"), req.EventID, actor(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(NewFlowResponse(instance))
}

func (h *APIHandlers) GetSummary(c fiber.Ctx) error {
	activeOnly, err := queryBool(c, "active_only")
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	filter := services.DashboardFilter{
		OrganizationID: c.Query("organization_id"),
		EventID:        c.Query("event_id"),
		ActiveOnly:     activeOnly != nil && *activeOnly,
	}

	summary, err := h.dashboardService.Summary(c.Context(), filter)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(SummaryResponse{Summary: summary, Filter: filter})
}

func (h *APIHandlers) GetTriggerCatalog(c fiber.Ctx) error {
	return c.JSON(h.registry.Triggers())
}

func (h *APIHandlers) GetActionCatalog(c fiber.Ctx) error {
	return c.JSON(h.registry.Actions())
}

func (h *APIHandlers) DescribeTrigger(c fiber.Ctx) error {
	var req DescribeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	t, _ := models.ParseTriggerType(req.Type)

	return c.JSON(DescribeResponse{
		Type:        string(t),
		Title:       describe.TriggerTitle(t),
		Icon:        describe.TriggerIcon(t),
		Description: describe.DescribeTriggerPayload(req.Type, req.Details),
		Summary:     describe.TriggerSummaryPayload(req.Type, req.Details),
	})
}

func (h *APIHandlers) DescribeAction(c fiber.Ctx) error {
	var req DescribeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	a, _ := models.ParseActionType(req.Type)

	return c.JSON(DescribeResponse{
		Type:        string(a),
		Title:       describe.ActionTitle(a),
		Icon:        describe.ActionIcon(a),
		Description: describe.DescribeActionPayload(req.Type, req.Details),
		Summary:     describe.ActionSummaryPayload(req.Type, req.Details),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.flowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowdesk API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		message = "Flowdesk API is healthy"
		httpStatus = http.StatusOK
	} else {
		h.logger.WarnContext(c.Context(), "Health check failed", "registry", registryCheck, "repository", repositoryCheck)
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func actor(c fiber.Ctx) string {
	return c.Get(ActorHeader, "anonymous")
}
