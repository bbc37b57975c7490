package analysis

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Classify", func() {
	DescribeTable("six-way trapping classification",
		func(lambda []float64, want TrappingClass) {
			got, err := Classify(lambda)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("trapped throughout", []float64{0.2, -0.5, 0.9, 0}, AlwaysTrapped),
		Entry("single trapped sample", []float64{0.99}, AlwaysTrapped),
		Entry("escapes then returns", []float64{0.2, 1.5, -3, 0.1}, TrappedAtEndsNotMiddle),
		Entry("escapes for good", []float64{0.2, 0.4, 1.2, 2}, TrappedThenFree),
		Entry("captured in the middle", []float64{2, 0.5, -0.5, 1.8}, FreeAtEndsTrappedMiddle),
		Entry("never captured", []float64{2, 1.5, -1, 3}, AlwaysFree),
		Entry("boundary value is free", []float64{1, -1, 1}, AlwaysFree),
		Entry("captured at the end", []float64{-4, -2, 0.3}, FreeThenTrapped),
	)

	It("rejects an empty series", func() {
		_, err := Classify(nil)
		Expect(err).To(MatchError(ErrEmptySeries))
	})

	It("rejects non-finite values", func() {
		_, err := Classify([]float64{0.1, math.NaN(), 0.2})
		Expect(err).To(MatchError(ErrUndefinedLambda))

		_, err = Classify([]float64{math.Inf(1)})
		Expect(err).To(MatchError(ErrUndefinedLambda))
	})
})

var _ = Describe("TrappingClass", func() {
	It("keeps stable numeric codes", func() {
		Expect(int(AlwaysTrapped)).To(Equal(0))
		Expect(int(TrappedAtEndsNotMiddle)).To(Equal(1))
		Expect(int(TrappedThenFree)).To(Equal(2))
		Expect(int(FreeAtEndsTrappedMiddle)).To(Equal(3))
		Expect(int(AlwaysFree)).To(Equal(4))
		Expect(int(FreeThenTrapped)).To(Equal(5))
	})

	It("round-trips labels and codes", func() {
		for c := AlwaysTrapped; c <= FreeThenTrapped; c++ {
			byName, err := ParseTrappingClass(c.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(byName).To(Equal(c))

			byCode, err := ParseTrappingClass(string(rune('0' + int(c))))
			Expect(err).NotTo(HaveOccurred())
			Expect(byCode).To(Equal(c))
		}
	})

	It("rejects unknown labels", func() {
		_, err := ParseTrappingClass("SOMETIMES_TRAPPED")
		Expect(err).To(HaveOccurred())
		_, err = ParseTrappingClass("6")
		Expect(err).To(HaveOccurred())
		Expect(TrappingClass(9).String()).To(Equal("TrappingClass(9)"))
	})
})
