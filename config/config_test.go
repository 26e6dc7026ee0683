package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/config"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should require a predictor scheme", func() {
		c := config.DefaultConfig()
		Expect(c.Predictor).To(BeEmpty())
		Expect(c.Validate()).To(MatchError("predictor scheme required"))

		c.Predictor = "static"
		s, err := c.Scheme()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Kind).To(Equal(config.Static))
	})

	It("should load a YAML file over the defaults", func() {
		path := filepath.Join(dir, "run.yaml")
		Expect(os.WriteFile(path, []byte("predictor: gshare:13\nprofile_top: 5\n"), 0644)).To(Succeed())

		c, err := config.LoadConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Predictor).To(Equal("gshare:13"))
		Expect(c.ProfileTop).To(Equal(5))
		Expect(c.ProfileWays).To(Equal(4))
		Expect(c.ThetaExpression).To(Equal(config.DefaultThetaExpression))
	})

	It("should load a JSON file", func() {
		path := filepath.Join(dir, "run.json")
		Expect(os.WriteFile(path, []byte(`{"predictor": "perceptron:34", "perceptron_budget_kib": 8}`), 0644)).To(Succeed())

		c, err := config.LoadConfig(path)
		Expect(err).NotTo(HaveOccurred())
		s, err := c.Scheme()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Params).To(Equal([]uint32{34, 263, 80}))
	})

	It("should round trip through SaveConfig", func() {
		c := config.DefaultConfig()
		c.Predictor = "tournament:9:10:10"
		c.Verbose = true

		for _, name := range []string{"out.json", "out.yml"} {
			path := filepath.Join(dir, name)
			Expect(c.SaveConfig(path)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(c))
		}
	})

	It("should fail on a missing file", func() {
		_, err := config.LoadConfig(filepath.Join(dir, "missing.json"))
		Expect(err).To(MatchError(ContainSubstring("failed to read config file")))
	})

	It("should fail on malformed content", func() {
		path := filepath.Join(dir, "bad.json")
		Expect(os.WriteFile(path, []byte("{"), 0644)).To(Succeed())
		_, err := config.LoadConfig(path)
		Expect(err).To(MatchError(ContainSubstring("failed to parse config")))
	})

	DescribeTable("validation",
		func(mutate func(*config.Config), message string) {
			c := config.DefaultConfig()
			mutate(c)
			Expect(c.Validate()).To(MatchError(ContainSubstring(message)))
		},
		Entry("sets", func(c *config.Config) { c.ProfileSets = 0 }, "profile_sets"),
		Entry("ways", func(c *config.Config) { c.ProfileWays = -1 }, "profile_ways"),
		Entry("top", func(c *config.Config) { c.ProfileTop = -1 }, "profile_top"),
		Entry("budget", func(c *config.Config) { c.PerceptronBudgetKiB = -1 }, "perceptron_budget_kib"),
		Entry("scheme", func(c *config.Config) { c.Predictor = "gshare" }, "required for gshare"),
	)

	It("should clone independently", func() {
		c := config.DefaultConfig()
		clone := c.Clone()
		clone.Predictor = "gshare:2"
		Expect(c.Predictor).To(BeEmpty())
	})
})
