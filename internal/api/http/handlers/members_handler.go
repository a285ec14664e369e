package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-service/internal/api/dto"
	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/service"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// MembersHandler exposes member registration and profile endpoints.
type MembersHandler struct {
	members *service.MemberService
}

// NewMembersHandler constructs the handler.
func NewMembersHandler(memberService *service.MemberService) *MembersHandler {
	return &MembersHandler{members: memberService}
}

// Register handles POST /members.
func (h *MembersHandler) Register(c *fiber.Ctx) error {
	var req dto.MemberRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewBadRequest("username and password required")
	}

	member, err := h.members.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewSuccess(
		http.StatusCreated, "MEMBER_CREATED", "member registered", memberView(member)))
}

// Me handles GET /members/me.
func (h *MembersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	member, err := h.members.GetByUsername(c.UserContext(), principal.Username)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewSuccess(http.StatusOK, "OK", "member profile", memberView(member)))
}

// CompleteProfile handles PUT /members/me/profile.
func (h *MembersHandler) CompleteProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Name == "" {
		return apperrors.NewBadRequest("name required")
	}

	member, err := h.members.CompleteProfile(c.UserContext(), principal.Username, req.Name)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewSuccess(http.StatusOK, "PROFILE_UPDATED", "profile completed", memberView(member)))
}

func memberView(member *domain.Member) dto.MemberResponse {
	return dto.MemberResponse{
		Username:          member.Username,
		Name:              member.Name,
		Role:              string(member.Role),
		IsProfileComplete: member.ProfileComplete,
	}
}
