package web

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/apibot/pkg/recommender"
	"github.com/papercomputeco/apibot/pkg/session"
	"github.com/papercomputeco/apibot/pkg/updates"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TranscriptResponse holds the trailing turns of a conversation.
type TranscriptResponse struct {
	Turns []session.Turn `json:"turns"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Content string `json:"content"`
}

// ChatResponse is the assistant reply plus the updated trailing turns.
type ChatResponse struct {
	Reply string         `json:"reply"`
	Turns []session.Turn `json:"turns"`
}

// UpdatesSearchResponse is the result of an update-notes keyword lookup.
type UpdatesSearchResponse struct {
	Keyword string         `json:"keyword"`
	Found   bool           `json:"found"`
	Match   *updates.Match `json:"match,omitempty"`
	Text    string         `json:"text"`
}

// UpdatesSummaryResponse is the update-notes digest shown in updates mode.
type UpdatesSummaryResponse struct {
	Announcement string `json:"announcement"`
	Featured     string `json:"featured"`
	Markdown     string `json:"markdown"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleTranscript returns the trailing turns of the caller's conversation.
func (s *Server) handleTranscript(c *fiber.Ctx) error {
	conv, err := s.conversation(c)
	if err != nil {
		s.logger.Error("failed to resolve session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to resolve session"})
	}

	return c.JSON(TranscriptResponse{Turns: conv.Recent(s.config.DisplayLimit)})
}

// handleChat runs one exchange for the caller's conversation.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	conv, err := s.conversation(c)
	if err != nil {
		s.logger.Error("failed to resolve session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to resolve session"})
	}

	reply, ok := recommender.Exchange(c.Context(), s.dispatcher, conv, req.Content)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "content is required"})
	}

	return c.JSON(ChatResponse{
		Reply: reply,
		Turns: conv.Recent(s.config.DisplayLimit),
	})
}

// handleChatForm is the page's form submit. It always redirects back to the
// page so a reload does not resubmit.
func (s *Server) handleChatForm(c *fiber.Ctx) error {
	conv, err := s.conversation(c)
	if err != nil {
		s.logger.Error("failed to resolve session", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to resolve session")
	}

	recommender.Exchange(c.Context(), s.dispatcher, conv, c.FormValue("content"))

	return c.Redirect("/", fiber.StatusSeeOther)
}

// handleReset discards the caller's conversation.
func (s *Server) handleReset(c *fiber.Ctx) error {
	if err := s.endConversation(c); err != nil {
		s.logger.Error("failed to reset session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to reset session"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleResetForm is the page's "new conversation" button.
func (s *Server) handleResetForm(c *fiber.Ctx) error {
	if err := s.endConversation(c); err != nil {
		s.logger.Error("failed to reset session", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to reset session")
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// handleSearchUpdates looks up a keyword in the update notes.
func (s *Server) handleSearchUpdates(c *fiber.Ctx) error {
	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "q is required"})
	}

	resp := UpdatesSearchResponse{
		Keyword: keyword,
		Text:    updates.NotFound,
	}
	if m, ok := updates.Find(s.notes(), keyword); ok {
		resp.Found = true
		resp.Match = &m
		resp.Text = m.String()
	}

	return c.JSON(resp)
}

// handleUpdatesSummary returns the update-notes digest.
func (s *Server) handleUpdatesSummary(c *fiber.Ctx) error {
	return c.JSON(UpdatesSummaryResponse{
		Announcement: s.config.Announcement,
		Featured:     s.config.Featured,
		Markdown:     updates.Summary(s.notes(), s.config.Featured),
	})
}

// handleAvatar serves the raw avatar image for a role.
func (s *Server) handleAvatar(c *fiber.Ctx) error {
	role, err := session.ParseRole(c.Params("role"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "unknown role"})
	}

	path := s.config.UserIconPath
	if role == session.RoleAssistant {
		path = s.config.AvatarPath
	}

	data, ok := s.assets.File(path)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "avatar not available"})
	}

	c.Set(fiber.HeaderContentType, http.DetectContentType(data))
	return c.Send(data)
}
