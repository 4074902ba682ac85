package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deencompass/compass/pkg/logger"
)

func decodeLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	ExpectWithOffset(1, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)).To(Succeed())
	return parsed
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("writes text by default", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf))
			l.Info("listening", "addr", ":8000")

			Expect(buf.String()).To(ContainSubstring("msg=listening"))
			Expect(buf.String()).To(ContainSubstring("addr=:8000"))
		})

		It("hides debug records unless debug is on", func() {
			var quiet, loud bytes.Buffer
			logger.New(logger.WithWriter(&quiet)).Debug("dropped knobs")
			logger.New(logger.WithWriter(&loud), logger.WithDebug(true)).Debug("dropped knobs")

			Expect(quiet.String()).To(BeEmpty())
			Expect(loud.String()).To(ContainSubstring("dropped knobs"))
		})

		It("writes JSON for the service", func() {
			var buf bytes.Buffer
			logger.New(logger.WithWriter(&buf), logger.WithJSON(true)).Info("chat completed", "turns", 3)

			parsed := decodeLine(&buf)
			Expect(parsed["msg"]).To(Equal("chat completed"))
			Expect(parsed["turns"]).To(BeNumerically("==", 3))
		})

		It("uses the pretty handler for CLI output", func() {
			var buf bytes.Buffer
			logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithJSON(true)).Info("sending question")

			Expect(buf.String()).To(ContainSubstring("sending question"))
			Expect(json.Valid(bytes.TrimSpace(buf.Bytes()))).To(BeFalse())
		})

		It("duplicates output to several writers", func() {
			var a, b bytes.Buffer
			logger.New(logger.WithWriter(&a, &b)).Info("ready")

			Expect(a.String()).To(ContainSubstring("ready"))
			Expect(b.String()).To(ContainSubstring("ready"))
		})

		It("stamps service and version", func() {
			var buf bytes.Buffer
			logger.New(
				logger.WithWriter(&buf),
				logger.WithJSON(true),
				logger.WithService("compass", "v1.2.3"),
			).Info("starting")

			parsed := decodeLine(&buf)
			Expect(parsed["service"]).To(Equal("compass"))
			Expect(parsed["version"]).To(Equal("v1.2.3"))
		})
	})

	Describe("redaction", func() {
		var buf bytes.Buffer
		var l *slog.Logger

		BeforeEach(func() {
			buf.Reset()
			l = logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
		})

		It("masks vendor credential keys", func() {
			l.Info("settings", "openai.api_key", "sk-secret", "authorization", "Bearer sk-secret", "model", "gpt-5")

			parsed := decodeLine(&buf)
			Expect(parsed["openai.api_key"]).To(Equal(logger.Redacted))
			Expect(parsed["authorization"]).To(Equal(logger.Redacted))
			Expect(parsed["model"]).To(Equal("gpt-5"))
			Expect(buf.String()).NotTo(ContainSubstring("sk-secret"))
		})

		It("masks inside groups and bound attributes", func() {
			l.With("gemini_api_key", "g-secret").Info("request",
				slog.Group("headers", slog.String("X-Goog-Api-Key", "g-secret"), slog.String("accept", "json")))

			parsed := decodeLine(&buf)
			Expect(parsed["gemini_api_key"]).To(Equal(logger.Redacted))
			headers := parsed["headers"].(map[string]any)
			Expect(headers["X-Goog-Api-Key"]).To(Equal(logger.Redacted))
			Expect(headers["accept"]).To(Equal("json"))
		})

		It("masks extra keys", func() {
			l = logger.New(logger.WithWriter(&buf), logger.WithJSON(true), logger.WithRedactedKeys("Policy"))
			l.Info("loaded", "policy", "cite sources")

			Expect(decodeLine(&buf)["policy"]).To(Equal(logger.Redacted))
		})
	})

	Describe("Nop", func() {
		It("is disabled at every level", func() {
			l := logger.Nop()
			Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
			Expect(func() { l.With("k", "v").WithGroup("g").Error("msg") }).NotTo(Panic())
		})
	})

	Describe("Multi", func() {
		It("dispatches to every logger", func() {
			var out, file bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&out)),
				logger.New(logger.WithWriter(&file), logger.WithJSON(true)),
			)
			multi.Info("broadcast", "key", "val")

			Expect(out.String()).To(ContainSubstring("broadcast"))
			Expect(decodeLine(&file)["key"]).To(Equal("val"))
		})

		It("respects each logger's level", func() {
			var info, debug bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&info)),
				logger.New(logger.WithWriter(&debug), logger.WithDebug(true)),
			)
			multi.Debug("detail")

			Expect(info.String()).To(BeEmpty())
			Expect(debug.String()).To(ContainSubstring("detail"))
		})

		It("keeps writing when one sink fails", func() {
			var out bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(failingWriter{})),
				logger.New(logger.WithWriter(&out)),
			)

			err := multi.Handler().Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still here", 0))
			Expect(err).To(MatchError(ContainSubstring("disk full")))
			Expect(out.String()).To(ContainSubstring("still here"))
		})

		It("carries With and WithGroup through", func() {
			var buf bytes.Buffer
			multi := logger.Multi(nil, logger.New(logger.WithWriter(&buf), logger.WithJSON(true)))
			multi.With("component", "api").WithGroup("request").Info("processed", "method", "POST")

			parsed := decodeLine(&buf)
			Expect(parsed["component"]).To(Equal("api"))
			Expect(parsed["request"]).To(HaveKeyWithValue("method", "POST"))
		})
	})
})
