package analysis

import (
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/corotrap/internal/frame"
)

// loop samples a circle of radius r traversed counter-clockwise in the
// pattern frame, starting at angle theta0.
func loop(r, theta0 float64, turns, n int) frame.Trajectory {
	const w = 1.0
	traj := make(frame.Trajectory, n)
	for i := range traj {
		theta := theta0 + 2*math.Pi*float64(turns)*float64(i)/float64(n-1)
		sin, cos := math.Sincos(theta)
		traj[i] = frame.Sample{
			XR: r * cos, YR: r * sin,
			VXR: -r * w * sin, VYR: r * w * cos,
			T: float64(i),
		}
	}
	return traj
}

var _ = Describe("PoincareSection", func() {
	It("interpolates a single upward crossing", func() {
		traj := frame.Trajectory{
			{XR: 0, YR: -1, VXR: 10},
			{XR: 2, YR: 1, VXR: 20},
			{XR: 4, YR: -3, VXR: 30},
		}
		Expect(PoincareSection(traj)).To(Equal([]r2.Vec{{X: 1, Y: 15}}))
	})

	It("records a sample landing on the axis once", func() {
		traj := frame.Trajectory{
			{XR: 5, YR: -2, VXR: 1},
			{XR: 6, YR: 0, VXR: 3},
			{XR: 7, YR: 2, VXR: 5},
		}
		Expect(PoincareSection(traj)).To(Equal([]r2.Vec{{X: 6, Y: 3}}))
	})

	It("finds one crossing per turn of a circular loop", func() {
		pts := PoincareSection(loop(8, 0.1, 3, 3001))
		Expect(pts).To(HaveLen(3))
		for _, p := range pts {
			Expect(p.X).To(BeNumerically("~", 8, 1e-3))
			Expect(p.Y).To(BeNumerically("~", 0, 1e-9))
		}
	})

	It("ignores downward crossings", func() {
		// Mirrored loop: the crossing at x_R > 0 is downward.
		traj := loop(8, -0.1, 1, 500)
		for i := range traj {
			traj[i].YR = -traj[i].YR
		}
		pts := PoincareSection(traj)
		Expect(pts).To(HaveLen(1))
		Expect(pts[0].X).To(BeNumerically("~", -8, 1e-3))
		Expect(PoincareSection(nil)).To(BeEmpty())
	})

	It("scatters points onto a grid", func() {
		out := PoincareToASCII([]r2.Vec{{X: 7, Y: -10}, {X: 9, Y: 10}}, 20, 10)
		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		Expect(lines).To(HaveLen(10))
		Expect(strings.Count(out, "•")).To(Equal(2))
		Expect([]rune(lines[0])[19]).To(Equal('•'))
		Expect([]rune(lines[9])[0]).To(Equal('•'))

		Expect(PoincareToASCII(nil, 20, 10)).To(Equal("No crossings detected"))
		Expect(strings.Count(PoincareToASCII([]r2.Vec{{X: 1, Y: 1}}, 20, 10), "•")).To(Equal(1))
	})
})
