package versioncmder_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	versioncmder "github.com/deencompass/compass/cmd/version"
	"github.com/deencompass/compass/pkg/utils"
)

var _ = Describe("NewVersionCmd", func() {
	run := func(args ...string) string {
		var out bytes.Buffer
		cmd := versioncmder.NewVersionCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		Expect(cmd.Execute()).To(Succeed())
		return out.String()
	}

	It("prints the build metadata", func() {
		b := utils.CurrentBuild()
		out := run()

		Expect(out).To(ContainSubstring("Version: " + b.Version))
		Expect(out).To(ContainSubstring("Sha: " + b.Sha))
		Expect(out).To(ContainSubstring("Go: go1."))
	})

	It("prints only the version with --short", func() {
		Expect(strings.TrimSpace(run("--short"))).To(Equal(utils.CurrentBuild().Version))
	})
})
