package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deencompass/compass/pkg/dotdir"
)

var _ = Describe("Manager", func() {
	var (
		tmpDir string
		m      *dotdir.Manager
	)

	// inDir runs the rest of the spec from dir with HOME pointed at home and
	// COMPASS_HOME unset.
	inDir := func(dir, home string) {
		orig, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(dir)).To(Succeed())
		DeferCleanup(os.Chdir, orig)

		GinkgoT().Setenv("HOME", home)
		GinkgoT().Setenv(dotdir.HomeEnv, "")
	}

	BeforeEach(func() {
		var err error
		// Resolve symlinks so paths match os.Getwd (macOS /var -> /private/var).
		tmpDir, err = filepath.EvalSymlinks(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		Expect(os.Mkdir(filepath.Join(tmpDir, "work"), 0o755)).To(Succeed())
		Expect(os.Mkdir(filepath.Join(tmpDir, "home"), 0o755)).To(Succeed())
		inDir(filepath.Join(tmpDir, "work"), filepath.Join(tmpDir, "home"))

		m = dotdir.NewManager()
	})

	Describe("Resolve", func() {
		It("prefers the override", func() {
			Expect(os.Mkdir(filepath.Join(tmpDir, "work", ".compass"), 0o755)).To(Succeed())
			GinkgoT().Setenv(dotdir.HomeEnv, filepath.Join(tmpDir, "env"))

			d, err := m.Resolve(filepath.Join(tmpDir, "override"))
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(dotdir.Dir{Path: filepath.Join(tmpDir, "override"), Source: dotdir.SourceOverride}))
			Expect(d.Exists()).To(BeFalse())
		})

		It("uses COMPASS_HOME over a local directory", func() {
			Expect(os.Mkdir(filepath.Join(tmpDir, "work", ".compass"), 0o755)).To(Succeed())
			GinkgoT().Setenv(dotdir.HomeEnv, filepath.Join(tmpDir, "env"))

			d, err := m.Resolve("")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Source).To(Equal(dotdir.SourceEnv))
			Expect(d.Path).To(Equal(filepath.Join(tmpDir, "env")))
		})

		It("uses ./.compass when it exists", func() {
			local := filepath.Join(tmpDir, "work", ".compass")
			Expect(os.Mkdir(local, 0o755)).To(Succeed())

			d, err := m.Resolve("")
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(dotdir.Dir{Path: local, Source: dotdir.SourceLocal}))
			Expect(d.Exists()).To(BeTrue())
		})

		It("falls back to ~/.compass without creating it", func() {
			d, err := m.Resolve("")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Source).To(Equal(dotdir.SourceHome))
			Expect(d.Path).To(Equal(filepath.Join(tmpDir, "home", ".compass")))
			Expect(d.Path).NotTo(BeADirectory())
		})

		It("makes relative overrides absolute", func() {
			d, err := m.Resolve("conf")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Path).To(Equal(filepath.Join(tmpDir, "work", "conf")))
		})
	})

	Describe("Target", func() {
		It("creates the resolved directory", func() {
			dir := filepath.Join(tmpDir, "newdir")
			result, err := m.Target(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(dir))
			Expect(dir).To(BeADirectory())
		})

		It("creates ~/.compass on fallback", func() {
			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(filepath.Join(tmpDir, "home", ".compass")))
			Expect(result).To(BeADirectory())
		})
	})

	Describe("Local", func() {
		It("points at ./.compass even when missing", func() {
			local, err := m.Local()
			Expect(err).NotTo(HaveOccurred())
			Expect(local).To(Equal(filepath.Join(tmpDir, "work", ".compass")))
		})
	})
})
