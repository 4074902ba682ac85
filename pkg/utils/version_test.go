package utils_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deencompass/compass/pkg/utils"
)

var _ = Describe("CurrentBuild", func() {
	It("prefers ldflags values", func() {
		orig := utils.Version
		utils.Version = "v1.4.0"
		DeferCleanup(func() { utils.Version = orig })

		Expect(utils.CurrentBuild().Version).To(Equal("v1.4.0"))
	})

	It("reports the Go toolchain", func() {
		Expect(utils.CurrentBuild().GoVersion).To(HavePrefix("go"))
	})
})
