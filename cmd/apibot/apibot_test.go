package apibotcmder_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apibotcmder "github.com/papercomputeco/apibot/cmd/apibot"
	testutils "github.com/papercomputeco/apibot/pkg/utils/test"
)

var _ = Describe("NewApibotCmd", func() {
	It("wires every subcommand", func() {
		cmd := apibotcmder.NewApibotCmd()
		names := []string{}
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("chat", "serve", "updates", "config", "version"))
	})

	It("defines the global flags", func() {
		cmd := apibotcmder.NewApibotCmd()
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})

	It("prints the version", func() {
		out := &bytes.Buffer{}
		cmd := apibotcmder.NewApibotCmd()
		cmd.SetOut(out)
		cmd.SetArgs([]string{"version"})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(HavePrefix("apibot dev\n"))
		Expect(out.String()).To(ContainSubstring("commit: HEAD"))
	})

	It("prints only the number with --short", func() {
		out := &bytes.Buffer{}
		cmd := apibotcmder.NewApibotCmd()
		cmd.SetOut(out)
		cmd.SetArgs([]string{"version", "--short"})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(Equal("dev\n"))
	})
})

var _ = Describe("apibot chat --plain", func() {
	var (
		configDir string
		mock      *testutils.MockRecommender
	)

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
		mock = testutils.NewMockRecommender(200, "기상청 단기예보 API")
	})

	AfterEach(func() {
		mock.Close()
	})

	It("runs a conversation against the endpoint and logs to the config dir", func() {
		out := &bytes.Buffer{}
		cmd := apibotcmder.NewApibotCmd()
		cmd.SetIn(strings.NewReader("날씨 데이터\n/exit\n"))
		cmd.SetOut(out)
		cmd.SetArgs([]string{"chat", "--plain", "--config-dir", configDir, "--endpoint", mock.URL})

		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("기상청 단기예보 API"))
		Expect(mock.Received()).To(Equal([]string{"날씨 데이터"}))

		info, err := os.Stat(filepath.Join(configDir, "apibot.log"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(BeNumerically(">", 0))
	})

	It("honours the APIBOT_ environment prefix", func() {
		GinkgoT().Setenv("APIBOT_RECOMMENDER_ENDPOINT", mock.URL)

		cmd := apibotcmder.NewApibotCmd()
		cmd.SetIn(strings.NewReader("교통\n"))
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"chat", "--plain", "--config-dir", configDir})

		Expect(cmd.Execute()).To(Succeed())
		Expect(mock.Received()).To(Equal([]string{"교통"}))
	})
})
