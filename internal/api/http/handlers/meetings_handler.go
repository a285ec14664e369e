package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-service/internal/api/dto"
	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/repository"
	"github.com/spec-kit/membership-service/internal/service"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// MeetingsHandler exposes meeting post and application endpoints.
type MeetingsHandler struct {
	meetings *service.MeetingService
}

// NewMeetingsHandler constructs the handler.
func NewMeetingsHandler(meetingService *service.MeetingService) *MeetingsHandler {
	return &MeetingsHandler{meetings: meetingService}
}

// Create handles POST /meetings.
func (h *MeetingsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.MeetingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Title == "" || req.Content == "" {
		return apperrors.NewBadRequest("title and content required")
	}

	meeting, err := h.meetings.Create(c.UserContext(), principal.Username, service.MeetingCreateInput{
		Category:     domain.MeetingCategory(req.Category),
		Title:        req.Title,
		Content:      req.Content,
		RecruitCount: req.RecruitCount,
		TechStacks:   req.TechStacks,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewSuccess(
		http.StatusCreated, "MEETING_CREATED", "meeting created", dto.FromMeeting(meeting)))
}

// List handles GET /meetings.
func (h *MeetingsHandler) List(c *fiber.Ctx) error {
	filter := repository.MeetingFilter{
		ByPopular: c.Query("sort") == "popular",
		Limit:     c.QueryInt("limit", 20),
		Offset:    c.QueryInt("offset", 0),
	}
	if category := c.Query("category"); category != "" {
		parsed := domain.MeetingCategory(category)
		filter.Category = &parsed
	}
	if status := c.Query("status"); status != "" {
		parsed := domain.MeetingStatus(status)
		filter.Status = &parsed
	}

	meetings, err := h.meetings.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	views := make([]dto.MeetingResponse, 0, len(meetings))
	for _, meeting := range meetings {
		views = append(views, dto.FromMeeting(meeting))
	}
	return c.JSON(dto.NewSuccess(http.StatusOK, "OK", "meetings", views))
}

// Get handles GET /meetings/:id.
func (h *MeetingsHandler) Get(c *fiber.Ctx) error {
	meeting, err := h.meetings.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSuccess(http.StatusOK, "OK", "meeting", dto.FromMeeting(meeting)))
}

// Update handles PUT /meetings/:id.
func (h *MeetingsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.MeetingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Title == "" || req.Content == "" {
		return apperrors.NewBadRequest("title and content required")
	}

	meeting, err := h.meetings.Update(c.UserContext(), c.Params("id"), principal.Username, service.MeetingUpdateInput{
		Title:        req.Title,
		Content:      req.Content,
		RecruitCount: req.RecruitCount,
		TechStacks:   req.TechStacks,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSuccess(http.StatusOK, "MEETING_UPDATED", "meeting updated", dto.FromMeeting(meeting)))
}

// Confirm handles POST /meetings/:id/confirm.
func (h *MeetingsHandler) Confirm(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	meeting, err := h.meetings.Confirm(c.UserContext(), c.Params("id"), principal.Username)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSuccess(http.StatusOK, "MEETING_CONFIRMED", "meeting confirmed", dto.FromMeeting(meeting)))
}

// Like handles POST /meetings/:id/like.
func (h *MeetingsHandler) Like(c *fiber.Ctx) error {
	if err := h.meetings.Like(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.NewSuccess(http.StatusOK, "MEETING_LIKED", "meeting liked", nil))
}

// Delete handles DELETE /meetings/:id (admin moderation).
func (h *MeetingsHandler) Delete(c *fiber.Ctx) error {
	if err := h.meetings.Remove(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.NewSuccess(http.StatusOK, "MEETING_DELETED", "meeting deleted", nil))
}

// Apply handles POST /meetings/:id/applications.
func (h *MeetingsHandler) Apply(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	application, err := h.meetings.Apply(c.UserContext(), c.Params("id"), principal.Username, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewSuccess(
		http.StatusCreated, "APPLICATION_SUBMITTED", "application submitted", dto.FromApplication(application)))
}

// Applications handles GET /meetings/:id/applications.
func (h *MeetingsHandler) Applications(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	applications, err := h.meetings.Applications(c.UserContext(), c.Params("id"), principal.Username)
	if err != nil {
		return err
	}

	views := make([]dto.ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		views = append(views, dto.FromApplication(application))
	}
	return c.JSON(dto.NewSuccess(http.StatusOK, "OK", "applications", views))
}

// Decide handles POST /applications/:id/decision.
func (h *MeetingsHandler) Decide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.DecideRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	application, err := h.meetings.Decide(c.UserContext(), c.Params("id"), principal.Username, req.Approve)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSuccess(http.StatusOK, "APPLICATION_DECIDED", "application decided", dto.FromApplication(application)))
}
