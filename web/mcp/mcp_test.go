package mcp_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/apibot/pkg/logger"
	"github.com/papercomputeco/apibot/pkg/updates"
	testutils "github.com/papercomputeco/apibot/pkg/utils/test"
	"github.com/papercomputeco/apibot/web/mcp"
)

var _ = Describe("MCP Server", func() {
	var (
		dispatcher *testutils.StubDispatcher
		notes      func() *updates.Document
	)

	BeforeEach(func() {
		dispatcher = &testutils.StubDispatcher{Reply: "X"}
		notes = updates.Empty
	})

	Describe("NewServer", func() {
		It("returns an error when dispatcher is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Notes:  notes,
				Logger: logger.Nop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("dispatcher is required"))
		})

		It("returns an error when notes source is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Dispatcher: dispatcher,
				Logger:     logger.Nop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("notes source is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Dispatcher: dispatcher,
				Notes:      notes,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("creates a server with an HTTP handler", func() {
			server, err := mcp.NewServer(mcp.Config{
				Dispatcher: dispatcher,
				Notes:      notes,
				Logger:     logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})
	})
})
