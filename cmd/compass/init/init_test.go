package initcmder_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	initcmder "github.com/deencompass/compass/cmd/compass/init"
	"github.com/deencompass/compass/pkg/config"
)

func runInit(args ...string) error {
	cmd := initcmder.NewInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

var _ = Describe("NewInitCmd", func() {
	It("creates a command with the correct use string", func() {
		Expect(initcmder.NewInitCmd().Use).To(Equal("init"))
	})

	It("rejects any arguments", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Args(cmd, []string{})).To(Succeed())
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})

	It("has a --preset flag", func() {
		f := initcmder.NewInitCmd().Flags().Lookup("preset")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal(""))
	})
})

var _ = Describe("Init command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "compass-init-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(tmpDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tmpDir)
	})

	It("creates a .compass directory with a default config", func() {
		Expect(runInit()).To(Succeed())

		cfg := loadConfig(tmpDir)
		Expect(cfg.Version).To(Equal(config.CurrentV))
		Expect(cfg.Provider.Name).To(Equal("openai"))
		Expect(cfg.Server.Listen).To(Equal(":8000"))
		Expect(cfg.Generation.MaxTokens).To(HaveValue(Equal(5000)))
	})

	It("keeps an existing config.toml when no preset is given", func() {
		Expect(os.MkdirAll(filepath.Join(tmpDir, ".compass"), 0o755)).To(Succeed())
		path := filepath.Join(tmpDir, ".compass", "config.toml")
		Expect(os.WriteFile(path, []byte("[provider]\nname = \"gemini\"\n"), 0o600)).To(Succeed())

		Expect(runInit()).To(Succeed())
		Expect(loadConfig(tmpDir).Provider.Name).To(Equal("gemini"))
	})

	Describe("--preset with provider presets", func() {
		It("writes the groq preset", func() {
			Expect(runInit("--preset", "groq")).To(Succeed())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Provider.Name).To(Equal("groq"))
			Expect(cfg.Generation.Temperature).To(HaveValue(Equal(0.2)))
			Expect(cfg.Groq.Model).To(Equal("llama-3.3-70b-versatile"))
		})

		It("writes the anthropic preset", func() {
			Expect(runInit("--preset", "anthropic")).To(Succeed())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Provider.Name).To(Equal("anthropic"))
			Expect(cfg.Generation.ReasoningBudget).To(HaveValue(Equal(2048)))
		})

		It("overwrites the config when re-run with another preset", func() {
			Expect(runInit("--preset", "openai")).To(Succeed())
			Expect(loadConfig(tmpDir).Provider.Name).To(Equal("openai"))

			Expect(runInit("--preset", "gemini")).To(Succeed())
			Expect(loadConfig(tmpDir).Provider.Name).To(Equal("gemini"))
		})

		It("rejects unknown preset names", func() {
			err := runInit("--preset", "invalid-provider")
			Expect(err).To(MatchError(ContainSubstring("unknown preset")))
		})
	})

	Describe("--preset with remote URL", func() {
		It("fetches and writes remote config.toml", func() {
			remoteCfg := `version = 0

[provider]
name = "groq"

[server]
listen = ":9090"

[generation]
temperature = 0.1
`
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				fmt.Fprint(w, remoteCfg)
			}))
			defer server.Close()

			Expect(runInit("--preset", server.URL)).To(Succeed())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Provider.Name).To(Equal("groq"))
			Expect(cfg.Server.Listen).To(Equal(":9090"))
			Expect(cfg.Generation.Temperature).To(HaveValue(Equal(0.1)))
		})

		It("returns error for non-200 HTTP response", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			Expect(runInit("--preset", server.URL)).To(MatchError(ContainSubstring("HTTP 404")))
		})

		It("returns error for invalid TOML from URL", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "this is not valid toml [[[")
			}))
			defer server.Close()

			Expect(runInit("--preset", server.URL)).To(MatchError(ContainSubstring("parsing")))
		})

		It("returns error for unreachable URL", func() {
			Expect(runInit("--preset", "http://127.0.0.1:1")).To(MatchError(ContainSubstring("fetching remote config")))
		})
	})
})

// loadConfig reads and parses the config.toml from the .compass directory
// within the given base directory.
func loadConfig(baseDir string) *config.Config {
	data, err := os.ReadFile(filepath.Join(baseDir, ".compass", "config.toml"))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	cfg := &config.Config{}
	ExpectWithOffset(1, toml.Unmarshal(data, cfg)).To(Succeed())
	return cfg
}
