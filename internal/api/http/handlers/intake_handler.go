package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/acidni/intake-service/internal/api/dto"
	"github.com/acidni/intake-service/internal/domain"
	"github.com/acidni/intake-service/internal/intake"
	apperrors "github.com/acidni/intake-service/pkg/util/errorutil"
)

// IntakeHandler serves the public form endpoints.
type IntakeHandler struct {
	pipeline *intake.Pipeline
}

// NewIntakeHandler constructs handler.
func NewIntakeHandler(pipeline *intake.Pipeline) *IntakeHandler {
	return &IntakeHandler{pipeline: pipeline}
}

// Contact POST /api/contact.
func (h *IntakeHandler) Contact(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Malformed payload", nil)
	}

	sub := &domain.Submission{
		Form:      domain.FormContact,
		Kind:      domain.KindContact,
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		Service:   req.Service,
		Body:      req.Message,
		BotToken:  req.RecaptchaToken,
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}

	if _, err := h.pipeline.Process(c.UserContext(), sub); err != nil {
		return err
	}
	return c.JSON(dto.ContactResponse{
		Success: true,
		Message: "Message sent successfully",
	})
}

// Feedback POST /api/feedback.
func (h *IntakeHandler) Feedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Malformed payload", nil)
	}

	sub := &domain.Submission{
		Form:        domain.FormFeedback,
		Kind:        domain.Kind(req.Type),
		Email:       req.Email,
		Subject:     req.Title,
		Body:        req.Description,
		Metadata:    req.Metadata,
		AcceptTerms: req.AcceptTerms,
		UserAgent:   c.Get(fiber.HeaderUserAgent),
	}

	result, err := h.pipeline.Process(c.UserContext(), sub)
	if err != nil {
		return err
	}
	return c.JSON(dto.FeedbackResponse{
		Success:    true,
		TicketID:   result.TicketID,
		WorkItemID: result.WorkItemID,
		Message:    "Feedback submitted successfully",
	})
}

// Support POST /api/support.
func (h *IntakeHandler) Support(c *fiber.Ctx) error {
	var req dto.SupportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Malformed payload", nil)
	}

	sub := &domain.Submission{
		Form:    domain.FormSupport,
		Kind:    domain.KindSupport,
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
		Subject: req.Subject,
		Body:    req.Description,
		Classification: domain.Classification{
			Category: req.Category,
			Priority: req.Priority,
		},
		BotToken:    req.RecaptchaToken,
		UserAgent:   req.UserAgent,
		SubmittedAt: req.Timestamp,
	}

	result, err := h.pipeline.Process(c.UserContext(), sub)
	if err != nil {
		return err
	}
	return c.JSON(dto.SupportResponse{
		Success:    true,
		Message:    "Support request submitted successfully",
		WorkItemID: result.WorkItemID,
	})
}

// MethodNotAllowed rejects non-POST requests on the form paths.
func (h *IntakeHandler) MethodNotAllowed(c *fiber.Ctx) error {
	return apperrors.NewMethodNotAllowed()
}
