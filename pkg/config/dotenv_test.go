package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deencompass/compass/pkg/config"
)

var _ = Describe("LoadDotEnv", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotenv-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)
	})

	It("loads variables that are not already set", func() {
		path := filepath.Join(tmpDir, ".env")
		data := "COMPASS_DOTENV_NEW=from-file\nCOMPASS_DOTENV_SET=from-file\n"
		Expect(os.WriteFile(path, []byte(data), 0o600)).To(Succeed())

		setenv("COMPASS_DOTENV_SET", "from-env")
		DeferCleanup(os.Unsetenv, "COMPASS_DOTENV_NEW")

		Expect(config.LoadDotEnv(path)).To(Succeed())
		Expect(os.Getenv("COMPASS_DOTENV_NEW")).To(Equal("from-file"))
		Expect(os.Getenv("COMPASS_DOTENV_SET")).To(Equal("from-env"))
	})

	It("ignores a missing file", func() {
		Expect(config.LoadDotEnv(filepath.Join(tmpDir, "missing.env"))).To(Succeed())
	})

	It("ignores an empty path", func() {
		Expect(config.LoadDotEnv("")).To(Succeed())
	})
})
