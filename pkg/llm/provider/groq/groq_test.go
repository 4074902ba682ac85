package groq_test

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
	"github.com/deencompass/compass/pkg/llm/provider/groq"
	"github.com/deencompass/compass/pkg/logger"
)

var _ = Describe("Groq adapter", func() {
	var (
		upstream *httptest.Server
		received map[string]any
		path     string
		status   int
		body     string
		a        provider.Adapter
	)

	BeforeEach(func() {
		received = nil
		status = http.StatusOK
		body = `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1741476542,
			"model": "llama-3.3-70b-versatile",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "Wa alaikum assalam"}
			}]
		}`

		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))

		var err error
		a, err = groq.New(groq.Config{
			APIKey:  "gsk-test",
			Model:   "llama-3.3-70b-versatile",
			BaseURL: upstream.URL + "/openai/v1/",
			Logger:  logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		upstream.Close()
	})

	msgs := []llm.Message{
		llm.NewMessage(llm.RoleUser, "Assalamu alaikum"),
	}

	It("is a sampling adapter", func() {
		Expect(a.Name()).To(Equal("groq"))
		Expect(a.Style()).To(Equal(llm.StyleSampling))
	})

	It("requires an API key", func() {
		_, err := groq.New(groq.Config{Model: "llama"})
		Expect(errors.Is(err, llm.ErrConfiguration)).To(BeTrue())
	})

	It("posts chat completions with the policy first", func() {
		reply, err := a.Generate(context.Background(), msgs, "cite sources", llm.GenerationConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Text).To(Equal("Wa alaikum assalam"))
		Expect(path).To(Equal("/openai/v1/chat/completions"))

		messages := received["messages"].([]any)
		Expect(messages).To(HaveLen(2))
		Expect(messages[0].(map[string]any)["role"]).To(Equal("system"))
		Expect(messages[0].(map[string]any)["content"]).To(Equal("cite sources"))
		Expect(messages[1].(map[string]any)["role"]).To(Equal("user"))
	})

	It("forwards sampling parameters unchanged", func() {
		gen := llm.GenerationConfig{
			Temperature:     llm.Ptr(0.7),
			TopP:            llm.Ptr(0.9),
			MaxTokens:       llm.Ptr(256),
			ReasoningEffort: llm.Ptr("high"),
		}
		_, err := a.Generate(context.Background(), msgs, "policy", gen)
		Expect(err).NotTo(HaveOccurred())

		Expect(received["temperature"]).To(BeNumerically("~", 0.7))
		Expect(received["top_p"]).To(BeNumerically("~", 0.9))
		Expect(received["max_tokens"]).To(BeNumerically("==", 256))
		Expect(received).NotTo(HaveKey("reasoning_effort"))
	})

	It("omits absent parameters", func() {
		_, err := a.Generate(context.Background(), msgs, "policy", llm.GenerationConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(received).NotTo(HaveKey("temperature"))
		Expect(received).NotTo(HaveKey("top_p"))
		Expect(received).NotTo(HaveKey("max_tokens"))
	})

	It("returns empty text when there are no choices", func() {
		body = `{"id": "chatcmpl-2", "object": "chat.completion", "model": "llama", "choices": []}`

		reply, err := a.Generate(context.Background(), msgs, "policy", llm.GenerationConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Text).To(BeEmpty())
	})

	It("wraps authentication failures as ProviderError", func() {
		status = http.StatusUnauthorized
		body = `{"error": {"message": "Invalid API Key", "type": "invalid_request_error"}}`

		_, err := a.Generate(context.Background(), msgs, "policy", llm.GenerationConfig{})
		var perr *llm.ProviderError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Provider).To(Equal("groq"))
		Expect(perr.StatusCode).To(Equal(http.StatusUnauthorized))
	})
})
