package web

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/yuin/goldmark"

	"github.com/papercomputeco/apibot/pkg/updates"
)

//go:embed templates/page.html
var templates embed.FS

const (
	modeChat    = "chat"
	modeUpdates = "updates"
)

type pageTurn struct {
	User bool
	HTML template.HTML
}

type pageData struct {
	Mode    string
	About   bool
	License bool

	// AvatarURI is the contrast-enhanced sidebar image, empty when missing.
	AvatarURI template.URL

	Turns []pageTurn

	Announcement string
	Keyword      string
	Result       string
	Summary      template.HTML
}

func parsePage() (*template.Template, error) {
	return template.New("page.html").ParseFS(templates, "templates/page.html")
}

// renderMarkdown converts markdown to HTML. Raw HTML in the source is
// omitted by goldmark's default renderer.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// flag reads a 0/1 page toggle, falling back to def when absent.
func flag(c *fiber.Ctx, key string, def bool) bool {
	switch c.Query(key) {
	case "1", "true", "on":
		return true
	case "0", "false", "off":
		return false
	default:
		return def
	}
}

// handlePage renders the chat page or, with ?mode=updates, the update notes.
func (s *Server) handlePage(c *fiber.Ctx) error {
	data := pageData{
		Mode:    modeChat,
		About:   flag(c, "about", true),
		License: flag(c, "license", false),
	}
	if c.Query("mode") == modeUpdates {
		data.Mode = modeUpdates
	}

	if uri, ok := s.assets.DataURI(s.config.AvatarPath, true); ok {
		data.AvatarURI = template.URL(uri)
	}

	switch data.Mode {
	case modeUpdates:
		doc := s.notes()
		data.Announcement = s.config.Announcement
		data.Summary = renderMarkdown(updates.Summary(doc, s.config.Featured))
		if kw := strings.TrimSpace(c.Query("q")); kw != "" {
			data.Keyword = kw
			data.Result = updates.Search(doc, kw)
		}
	default:
		conv, err := s.conversation(c)
		if err != nil {
			s.logger.Error("failed to resolve session", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("failed to resolve session")
		}
		for _, t := range conv.Recent(s.config.DisplayLimit) {
			data.Turns = append(data.Turns, pageTurn{
				User: t.IsUser(),
				HTML: renderMarkdown(t.Content),
			})
		}
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("failed to render page", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render page")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
