package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deencompass/compass/pkg/cliui"
)

var _ = Describe("Step", func() {
	It("returns the result of fn and prints the message", func() {
		var buf bytes.Buffer
		err := cliui.Step(&buf, "asking", func() error { return nil })
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("asking"))
		Expect(buf.String()).To(ContainSubstring(cliui.SuccessMark))
	})

	It("marks failures", func() {
		var buf bytes.Buffer
		err := cliui.Step(&buf, "asking", func() error { return errors.New("boom") })
		Expect(err).To(MatchError("boom"))
		Expect(buf.String()).To(ContainSubstring(cliui.FailMark))
	})
})

var _ = Describe("FormatDuration", func() {
	It("uses milliseconds below one second", func() {
		Expect(cliui.FormatDuration(250 * time.Millisecond)).To(Equal("250ms"))
	})

	It("uses seconds with one decimal otherwise", func() {
		Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})
})

var _ = Describe("RenderMarkdown", func() {
	It("keeps the text content", func() {
		out, err := cliui.RenderMarkdown("**Surah Al-Fatiha** 1:1", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Surah Al-Fatiha"))
	})
})
