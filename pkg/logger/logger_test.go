package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/apibot/pkg/logger"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func decodeLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	Expect(json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &parsed)).To(Succeed())
	return parsed
}

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("writes text records by default", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf))
			l.Info("dispatching", "endpoint", "http://127.0.0.1:8000")

			Expect(buf.String()).To(ContainSubstring("dispatching"))
			Expect(buf.String()).To(ContainSubstring("endpoint=http://127.0.0.1:8000"))
		})

		It("hides debug records unless debug is enabled", func() {
			var quiet, loud bytes.Buffer
			logger.New(logger.WithWriter(&quiet)).Debug("hidden")
			logger.New(logger.WithWriter(&loud), logger.WithDebug(true)).Debug("shown")

			Expect(quiet.String()).To(BeEmpty())
			Expect(loud.String()).To(ContainSubstring("shown"))
		})

		It("writes JSON records", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
			l.Error("recommender returned non-200", "status", 500)

			parsed := decodeLine(&buf)
			Expect(parsed["msg"]).To(Equal("recommender returned non-200"))
			Expect(parsed["status"]).To(BeNumerically("==", 500))
		})

		It("writes pretty records through charmbracelet/log", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true))
			l.Info("listening")

			Expect(buf.String()).To(ContainSubstring("listening"))
		})

		It("tags records with the component", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true), logger.WithComponent("chat"))
			l.Info("session started")

			Expect(decodeLine(&buf)["component"]).To(Equal("chat"))
		})

		It("reports the caller when source is enabled", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true), logger.WithSource(true))
			l.Info("located")

			Expect(decodeLine(&buf)).To(HaveKey("source"))
		})

		It("lets the last format option win", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithJSON(true))
			l.Info("as json")

			Expect(decodeLine(&buf)["msg"]).To(Equal("as json"))
		})

		It("keeps With attributes on child loggers", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
			l.With("component", "recommender").Info("started")

			Expect(decodeLine(&buf)["component"]).To(Equal("recommender"))
		})
	})

	Describe("Nop", func() {
		It("is disabled at every level", func() {
			l := logger.Nop()
			Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
			Expect(func() { l.With("k", "v").Error("dropped") }).NotTo(Panic())
		})
	})

	Describe("Multi", func() {
		It("dispatches every record to each logger", func() {
			var a, b bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&a)),
				logger.New(logger.WithWriter(&b), logger.WithJSON(true)),
			)
			multi.Info("broadcast", "key", "val")

			Expect(a.String()).To(ContainSubstring("broadcast"))
			Expect(decodeLine(&b)["key"]).To(Equal("val"))
		})

		It("nests grouped attributes", func() {
			var buf bytes.Buffer
			multi := logger.Multi(logger.New(logger.WithWriter(&buf), logger.WithJSON(true)))
			multi.WithGroup("request").Info("handled", "path", "/api/chat")

			group, ok := decodeLine(&buf)["request"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(group["path"]).To(Equal("/api/chat"))
		})

		It("skips loggers that are not enabled", func() {
			var buf bytes.Buffer
			multi := logger.Multi(logger.Nop(), logger.New(logger.WithWriter(&buf)))
			multi.Info("only once")

			Expect(buf.String()).To(ContainSubstring("only once"))
		})

		It("ignores nil loggers", func() {
			var buf bytes.Buffer
			multi := logger.Multi(nil, logger.New(logger.WithWriter(&buf)))
			multi.Info("still written")

			Expect(buf.String()).To(ContainSubstring("still written"))
		})

		It("keeps writing after a sink fails", func() {
			var buf bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(failingWriter{})),
				logger.New(logger.WithWriter(&buf)),
			)
			multi.Info("survives")

			Expect(buf.String()).To(ContainSubstring("survives"))
		})
	})
})
