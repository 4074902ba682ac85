package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deencompass/compass/pkg/llm"
	"github.com/deencompass/compass/pkg/llm/provider"
	"github.com/deencompass/compass/pkg/llm/provider/gemini"
	"github.com/deencompass/compass/pkg/logger"
)

var _ = Describe("Gemini adapter", func() {
	var (
		upstream *httptest.Server
		received map[string]any
		calls    int
		status   int
		body     string
		a        provider.Adapter
	)

	BeforeEach(func() {
		received = nil
		calls = 0
		status = http.StatusOK
		body = `{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "Wa alaikum assalam"}]},
				"finishReason": "STOP"
			}],
			"modelVersion": "gemini-2.5-flash"
		}`

		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))

		var err error
		a, err = gemini.New(context.Background(), gemini.Config{
			APIKey:  "gm-test",
			Model:   "gemini-2.5-flash",
			BaseURL: upstream.URL + "/",
			Logger:  logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		upstream.Close()
	})

	msgs := []llm.Message{
		llm.NewMessage(llm.RoleUser, "Assalamu alaikum"),
		llm.NewMessage(llm.RoleAssistant, "Wa alaikum assalam"),
		llm.NewMessage(llm.RoleUser, "What breaks wudu?"),
	}

	It("is a sampling adapter", func() {
		Expect(a.Name()).To(Equal("gemini"))
		Expect(a.Style()).To(Equal(llm.StyleSampling))
	})

	It("requires an API key", func() {
		_, err := gemini.New(context.Background(), gemini.Config{Model: "gemini-2.5-flash"})
		Expect(errors.Is(err, llm.ErrConfiguration)).To(BeTrue())
	})

	It("sends the policy as the system instruction", func() {
		reply, err := a.Generate(context.Background(), msgs, "cite sources", llm.GenerationConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Text).To(Equal("Wa alaikum assalam"))

		system := received["systemInstruction"].(map[string]any)
		parts := system["parts"].([]any)
		Expect(parts[0].(map[string]any)["text"]).To(Equal("cite sources"))

		contents := received["contents"].([]any)
		Expect(contents).To(HaveLen(3))
		Expect(contents[0].(map[string]any)["role"]).To(Equal("user"))
		Expect(contents[1].(map[string]any)["role"]).To(Equal("model"))
	})

	It("appends client system messages after the policy", func() {
		withSystem := append([]llm.Message{llm.NewMessage(llm.RoleSystem, "be brief")}, msgs...)
		_, err := a.Generate(context.Background(), withSystem, "cite sources", llm.GenerationConfig{})
		Expect(err).NotTo(HaveOccurred())

		parts := received["systemInstruction"].(map[string]any)["parts"].([]any)
		Expect(parts).To(HaveLen(2))
		Expect(parts[0].(map[string]any)["text"]).To(Equal("cite sources"))
		Expect(parts[1].(map[string]any)["text"]).To(Equal("be brief"))
	})

	It("forwards sampling parameters", func() {
		gen := llm.GenerationConfig{
			Temperature:     llm.Ptr(0.7),
			TopP:            llm.Ptr(0.9),
			TopK:            llm.Ptr(40),
			MaxTokens:       llm.Ptr(5000),
			ReasoningBudget: llm.Ptr(1024),
		}
		_, err := a.Generate(context.Background(), msgs, "policy", gen)
		Expect(err).NotTo(HaveOccurred())

		config := received["generationConfig"].(map[string]any)
		Expect(config["temperature"]).To(BeNumerically("~", 0.7, 1e-6))
		Expect(config["topP"]).To(BeNumerically("~", 0.9, 1e-6))
		Expect(config["topK"]).To(BeNumerically("==", 40))
		Expect(config["maxOutputTokens"]).To(BeNumerically("==", 5000))
		Expect(config).NotTo(HaveKey("thinkingConfig"))
	})

	DescribeTable("rejects conversations with only system turns before calling the vendor",
		func(policy string, msgs []llm.Message) {
			_, err := a.Generate(context.Background(), msgs, policy, llm.GenerationConfig{})
			Expect(errors.Is(err, llm.ErrInvalidInput)).To(BeTrue())
			Expect(errors.Is(err, llm.ErrProvider)).To(BeFalse())
			Expect(calls).To(BeZero())
		},
		Entry("policy alone", "cite sources", nil),
		Entry("policy and a client system message", "cite sources", []llm.Message{llm.NewMessage(llm.RoleSystem, "be brief")}),
	)

	It("returns empty text when there are no candidates", func() {
		body = `{"candidates": []}`

		reply, err := a.Generate(context.Background(), msgs, "policy", llm.GenerationConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Text).To(BeEmpty())
	})

	It("wraps vendor failures as ProviderError", func() {
		status = http.StatusForbidden
		body = `{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`

		_, err := a.Generate(context.Background(), msgs, "policy", llm.GenerationConfig{})
		Expect(errors.Is(err, llm.ErrProvider)).To(BeTrue())
	})
})
