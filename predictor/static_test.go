package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/predictor"
)

var _ = Describe("Static", func() {
	It("should always predict taken", func() {
		p := predictor.NewStatic()
		Expect(p.Predict(0)).To(Equal(predictor.Taken))

		for i := 0; i < 4; i++ {
			p.Train(0x1000, predictor.NotTaken)
		}
		Expect(p.Predict(0x1000)).To(Equal(predictor.Taken))
	})
})
