package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/apibot/pkg/assets"
	"github.com/papercomputeco/apibot/pkg/logger"
	"github.com/papercomputeco/apibot/pkg/recommender"
	"github.com/papercomputeco/apibot/pkg/session"
	"github.com/papercomputeco/apibot/pkg/updates"
	testutils "github.com/papercomputeco/apibot/pkg/utils/test"
)

const testNotes = `{
  "Highlights": {
    "Version 1.36": {"Description": "beta launch", "Documentation": "https://www.data.go.kr"},
    "Search": {"Description": "natural language search"}
  },
  "Notable Changes": {"Transport": {"Bus": "Seoul bus route lookup"}},
  "Other Changes": {"Misc": {"Weather": "Short-term forecast API added"}}
}`

func writeTestPNG(path string) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	f, err := os.Create(path)
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()
	Expect(png.Encode(f, img)).To(Succeed())
}

func decodeJSON(resp *http.Response, v any) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	Expect(json.Unmarshal(body, v)).To(Succeed())
}

func readBody(resp *http.Response) string {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return string(body)
}

func sessionCookieOf(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	return nil
}

var _ = Describe("Server", func() {
	var (
		server     *Server
		dispatcher *testutils.StubDispatcher
		dir        string
		config     Config
	)

	newServer := func(d recommender.Dispatcher) *Server {
		s, err := NewServer(config, d, assets.NewCache(logger.Nop()), logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	do := func(req *http.Request) *http.Response {
		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	postChat := func(content string, cookie *http.Cookie) *http.Response {
		body, err := json.Marshal(ChatRequest{Content: content})
		Expect(err).NotTo(HaveOccurred())
		req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if cookie != nil {
			req.AddCookie(cookie)
		}
		return do(req)
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "updates.json"), []byte(testNotes), 0o600)).To(Succeed())

		config = Config{
			ListenAddr:   ":0",
			DisplayLimit: session.DisplayLimit,
			Greeting:     session.DefaultGreeting,
			Announcement: "2024.09 베타 서비스 시작",
			Featured:     "Version 1.36",
			UpdatesPath:  filepath.Join(dir, "updates.json"),
			AvatarPath:   filepath.Join(dir, "avatar.png"),
			UserIconPath: filepath.Join(dir, "user.png"),
		}
		dispatcher = &testutils.StubDispatcher{Reply: "X"}
		server = newServer(dispatcher)
	})

	Describe("GET /ping", func() {
		It("responds with pong", func() {
			resp := do(httptest.NewRequest(http.MethodGet, "/ping", nil))
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(readBody(resp)).To(Equal(`"pong"`))
		})
	})

	Describe("GET /api/transcript", func() {
		It("starts a new conversation with the greeting and issues a cookie", func() {
			resp := do(httptest.NewRequest(http.MethodGet, "/api/transcript", nil))
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(sessionCookieOf(resp)).NotTo(BeNil())

			var out TranscriptResponse
			decodeJSON(resp, &out)
			Expect(out.Turns).To(Equal([]session.Turn{
				{Role: session.RoleAssistant, Content: session.DefaultGreeting},
			}))
		})
	})

	Describe("DELETE /api/transcript", func() {
		It("drops the conversation and starts over from the greeting", func() {
			first := postChat("버스 도착 정보", nil)
			cookie := sessionCookieOf(first)
			Expect(cookie).NotTo(BeNil())
			Expect(first.Body.Close()).To(Succeed())
			Expect(server.sessions.Len()).To(Equal(1))

			req := httptest.NewRequest(http.MethodDelete, "/api/transcript", nil)
			req.AddCookie(cookie)
			resp := do(req)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))
			Expect(server.sessions.Len()).To(Equal(0))

			var out TranscriptResponse
			again := httptest.NewRequest(http.MethodGet, "/api/transcript", nil)
			again.AddCookie(cookie)
			decodeJSON(do(again), &out)
			Expect(out.Turns).To(Equal([]session.Turn{
				{Role: session.RoleAssistant, Content: session.DefaultGreeting},
			}))
		})
	})

	Describe("POST /reset", func() {
		It("forgets the conversation and redirects to the page", func() {
			first := postChat("날씨", nil)
			cookie := sessionCookieOf(first)
			Expect(first.Body.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/reset", nil)
			req.AddCookie(cookie)
			resp := do(req)
			Expect(resp.StatusCode).To(Equal(fiber.StatusSeeOther))
			Expect(resp.Header.Get("Location")).To(Equal("/"))
			Expect(server.sessions.Len()).To(Equal(0))
		})
	})

	Describe("POST /api/chat", func() {
		It("appends the exchange to the cookie's conversation", func() {
			first := postChat("버스 도착 정보", nil)
			Expect(first.StatusCode).To(Equal(fiber.StatusOK))
			cookie := sessionCookieOf(first)
			Expect(cookie).NotTo(BeNil())

			var out ChatResponse
			decodeJSON(first, &out)
			Expect(out.Reply).To(Equal("X"))
			Expect(out.Turns).To(HaveLen(3))
			Expect(out.Turns[1]).To(Equal(session.Turn{Role: session.RoleUser, Content: "버스 도착 정보"}))
			Expect(out.Turns[2]).To(Equal(session.Turn{Role: session.RoleAssistant, Content: "X"}))

			second := postChat("날씨", cookie)
			decodeJSON(second, &out)
			Expect(out.Turns).To(HaveLen(5))
			Expect(dispatcher.Seen()).To(Equal([]string{"버스 도착 정보", "날씨"}))
		})

		It("keeps browser sessions apart", func() {
			a := postChat("a", nil)
			Expect(a.StatusCode).To(Equal(fiber.StatusOK))

			var out ChatResponse
			decodeJSON(postChat("b", nil), &out)
			Expect(out.Turns).To(HaveLen(3))
			Expect(server.sessions.Len()).To(Equal(2))
		})

		It("rejects blank content without dispatching", func() {
			resp := postChat("   ", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			var out ErrorResponse
			decodeJSON(resp, &out)
			Expect(out.Error).To(Equal("content is required"))
			Expect(dispatcher.Seen()).To(BeEmpty())
		})

		It("returns only the last display limit turns", func() {
			var cookie *http.Cookie
			for i := 0; i < 15; i++ {
				resp := postChat("q", cookie)
				if cookie == nil {
					cookie = sessionCookieOf(resp)
				}
				Expect(resp.Body.Close()).To(Succeed())
			}

			var out TranscriptResponse
			req := httptest.NewRequest(http.MethodGet, "/api/transcript", nil)
			req.AddCookie(cookie)
			decodeJSON(do(req), &out)
			Expect(out.Turns).To(HaveLen(session.DisplayLimit))
			Expect(out.Turns[session.DisplayLimit-1].Role).To(Equal(session.RoleAssistant))
		})

		Context("against the recommendation endpoint", func() {
			It("shows the status when the endpoint fails", func() {
				mock := testutils.NewMockRecommender(http.StatusInternalServerError, "")
				defer mock.Close()
				server = newServer(recommender.NewClient(recommender.Config{
					Endpoint: mock.URL,
					Logger:   logger.Nop(),
				}))

				var out ChatResponse
				decodeJSON(postChat("교통", nil), &out)
				Expect(out.Reply).To(ContainSubstring("500"))
				Expect(mock.Received()).To(Equal([]string{"교통"}))
			})

			It("shows the reply on success", func() {
				mock := testutils.NewMockRecommender(http.StatusOK, "기상청 단기예보 API")
				defer mock.Close()
				server = newServer(recommender.NewClient(recommender.Config{
					Endpoint: mock.URL,
					Logger:   logger.Nop(),
				}))

				var out ChatResponse
				decodeJSON(postChat("날씨", nil), &out)
				Expect(out.Reply).To(Equal("기상청 단기예보 API"))
			})
		})
	})

	Describe("POST /chat", func() {
		It("runs the exchange and redirects to the page", func() {
			form := url.Values{"content": {"부동산 실거래가"}}
			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			resp := do(req)
			Expect(resp.StatusCode).To(Equal(fiber.StatusSeeOther))
			Expect(resp.Header.Get("Location")).To(Equal("/"))

			page := httptest.NewRequest(http.MethodGet, "/", nil)
			page.AddCookie(sessionCookieOf(resp))
			html := readBody(do(page))
			Expect(html).To(ContainSubstring("부동산 실거래가"))
			Expect(html).To(ContainSubstring("<p>X</p>"))
		})
	})

	Describe("GET /", func() {
		It("renders the greeting and the about text by default", func() {
			resp := do(httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/html"))

			html := readBody(resp)
			Expect(html).To(ContainSubstring(session.DefaultGreeting))
			Expect(html).To(ContainSubstring("data.go.kr"))
			Expect(html).NotTo(ContainSubstring("Hyper Clovax"))
			Expect(html).NotTo(ContainSubstring("cover-glow\" alt"))
		})

		It("honours the sidebar toggles", func() {
			html := readBody(do(httptest.NewRequest(http.MethodGet, "/?about=0&license=1", nil)))
			Expect(html).NotTo(ContainSubstring("1만 2천건"))
			Expect(html).To(ContainSubstring("Hyper Clovax"))
		})

		It("embeds the avatar as a data URI when present", func() {
			writeTestPNG(config.AvatarPath)
			html := readBody(do(httptest.NewRequest(http.MethodGet, "/", nil)))
			Expect(html).To(ContainSubstring(`src="data:image/png;base64,`))
		})

		It("escapes markup in replies", func() {
			dispatcher.Reply = "<script>alert(1)</script>"
			resp := postChat("x", nil)
			page := httptest.NewRequest(http.MethodGet, "/", nil)
			page.AddCookie(sessionCookieOf(resp))
			Expect(readBody(do(page))).NotTo(ContainSubstring("<script>alert(1)</script>"))
		})

		Context("in updates mode", func() {
			It("renders the announcement and the summary", func() {
				html := readBody(do(httptest.NewRequest(http.MethodGet, "/?mode=updates", nil)))
				Expect(html).To(ContainSubstring("2024.09 베타 서비스 시작"))
				Expect(html).To(ContainSubstring("<strong>Version 1.36</strong>"))
				Expect(html).NotTo(ContainSubstring(session.DefaultGreeting))
			})

			It("renders a keyword search", func() {
				html := readBody(do(httptest.NewRequest(http.MethodGet, "/?mode=updates&q=bus", nil)))
				Expect(html).To(ContainSubstring("Sub-Category: Transport"))
			})
		})
	})

	Describe("GET /api/updates", func() {
		It("returns the first match", func() {
			var out UpdatesSearchResponse
			decodeJSON(do(httptest.NewRequest(http.MethodGet, "/api/updates?q=WEATHER", nil)), &out)
			Expect(out.Found).To(BeTrue())
			Expect(out.Match.Section).To(Equal("Other Changes"))
			Expect(out.Text).To(Equal("Section: Other Changes\nSub-Category: Misc\nWeather: Short-term forecast API added"))
		})

		It("returns the not-found text", func() {
			var out UpdatesSearchResponse
			decodeJSON(do(httptest.NewRequest(http.MethodGet, "/api/updates?q=subway", nil)), &out)
			Expect(out.Found).To(BeFalse())
			Expect(out.Text).To(Equal(updates.NotFound))
		})

		It("requires a keyword", func() {
			resp := do(httptest.NewRequest(http.MethodGet, "/api/updates", nil))
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("GET /api/updates/summary", func() {
		It("returns the digest with the featured entry first", func() {
			var out UpdatesSummaryResponse
			decodeJSON(do(httptest.NewRequest(http.MethodGet, "/api/updates/summary", nil)), &out)
			Expect(out.Announcement).To(Equal("2024.09 베타 서비스 시작"))
			Expect(out.Featured).To(Equal("Version 1.36"))
			Expect(out.Markdown).To(HavePrefix("- **Version 1.36**: beta launch"))
			Expect(out.Markdown).To(ContainSubstring("- **Search**: natural language search"))
		})
	})

	Describe("GET /avatar/:role", func() {
		It("serves the image for a role", func() {
			writeTestPNG(config.UserIconPath)
			resp := do(httptest.NewRequest(http.MethodGet, "/avatar/user", nil))
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("image/png"))
		})

		It("returns 404 when the image is missing", func() {
			resp := do(httptest.NewRequest(http.MethodGet, "/avatar/assistant", nil))
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("returns 404 for an unknown role", func() {
			resp := do(httptest.NewRequest(http.MethodGet, "/avatar/system", nil))
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})
	})

	Describe("/mcp", func() {
		It("is mounted", func() {
			resp := do(httptest.NewRequest(http.MethodGet, "/mcp", nil))
			Expect(resp.StatusCode).NotTo(Equal(fiber.StatusNotFound))
		})
	})

	Describe("SweepIdle", func() {
		It("returns immediately when sweeping is disabled", func() {
			done := make(chan struct{})
			go func() {
				server.SweepIdle(context.Background(), time.Millisecond)
				close(done)
			}()
			Eventually(done).Should(BeClosed())
		})

		It("evicts idle conversations until cancelled", func() {
			config.SessionIdle = 10 * time.Millisecond
			server = newServer(dispatcher)
			Expect(postChat("q", nil).Body.Close()).To(Succeed())
			Expect(server.sessions.Len()).To(Equal(1))

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				server.SweepIdle(ctx, 5*time.Millisecond)
				close(done)
			}()

			Eventually(server.sessions.Len).Should(Equal(0))
			cancel()
			Eventually(done).Should(BeClosed())
		})
	})
})
