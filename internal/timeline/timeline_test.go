package timeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jmcastelo/SIRview/internal/compartment"
	"github.com/jmcastelo/SIRview/internal/dynamo"
	"github.com/jmcastelo/SIRview/internal/timeline"
)

const indexMax = 1000

func section(tl *timeline.Timeline, i int) timeline.Section {
	s, err := tl.Section(i)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return s
}

func expectContinuity(tl *timeline.Timeline) {
	for i := 1; i < tl.Len(); i++ {
		prev, cur := section(tl, i-1), section(tl, i)
		want, err := timeline.Interpolate(prev.Trajectory(), cur.Start)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		for k := range want {
			ExpectWithOffset(1, cur.InitialState[k]).To(BeNumerically("~", want[k], 1e-6),
				"section %d component %d", i, k)
		}
		ExpectWithOffset(1, cur.Trajectory().States[0]).To(Equal(cur.InitialState))
	}
}

func expectBounds(tl *timeline.Timeline) {
	for i, r := range tl.Ranges() {
		ExpectWithOffset(1, r.Start).To(BeNumerically(">=", r.StartMin), "section %d", i)
		ExpectWithOffset(1, r.Start).To(BeNumerically("<=", r.StartMax), "section %d", i)
		ExpectWithOffset(1, r.End).To(BeNumerically(">=", r.EndMin), "section %d", i)
		ExpectWithOffset(1, r.End).To(BeNumerically("<=", r.EndMax), "section %d", i)
	}
	ExpectWithOffset(1, timeline.Validate(tl.Ranges(), tl.Limits())).To(BeTrue())
}

func expectMonotonic(tr *dynamo.Trajectory) {
	for i := 1; i < tr.Len(); i++ {
		ExpectWithOffset(1, tr.Times[i]).To(BeNumerically(">", tr.Times[i-1]))
	}
}

// threeRegimes builds [0,50] at R0=2.5, then from t=10 a lockdown at R0=0.8
// until 40, then from t=30 a release at R0=1.8 until 80.
func threeRegimes() *timeline.Timeline {
	tl, err := timeline.New(compartment.SIR)
	Expect(err).NotTo(HaveOccurred())

	Expect(tl.AddSection()).To(Succeed())
	Expect(tl.SetTimeStartValue(1, 10)).To(Succeed())
	Expect(tl.SetTimeEndValue(1, 40)).To(Succeed())
	Expect(tl.SetParameterValue(1, 0, 0.8)).To(Succeed())

	Expect(tl.AddSection()).To(Succeed())
	Expect(tl.SetTimeStartValue(2, 30)).To(Succeed())
	Expect(tl.SetTimeEndValue(2, 80)).To(Succeed())
	Expect(tl.SetParameterValue(2, 0, 1.8)).To(Succeed())
	return tl
}

var _ = Describe("Timeline", func() {
	Describe("a new timeline", func() {
		var tl *timeline.Timeline

		BeforeEach(func() {
			var err error
			tl, err = timeline.New(compartment.SIR)
			Expect(err).NotTo(HaveOccurred())
		})

		It("holds one integrated section from the catalog defaults", func() {
			Expect(tl.Len()).To(Equal(1))
			Expect(tl.Current()).To(Equal(0))

			s := section(tl, 0)
			Expect(s.Start).To(Equal(timeline.DefaultFloor))
			Expect(s.End).To(Equal(timeline.DefaultEnd))
			Expect(s.EndMax).To(Equal(timeline.DefaultEnd + timeline.DefaultIncrement))
			Expect(s.Params).To(Equal([]float64{2.5}))
			Expect(s.InitialState).To(Equal(compartment.SIR.InitialState()))
			Expect(s.Computed()).To(BeTrue())
			Expect(s.Trajectory().End()).To(Equal(timeline.DefaultEnd))
		})

		It("exposes only the full series on its last section", func() {
			full, err := tl.PlotFull(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(full.Dim()).To(Equal(3))

			_, err = tl.PlotLeft(0)
			Expect(err).To(MatchError(timeline.ErrNotComputed))
			_, err = tl.PlotRight(0)
			Expect(err).To(MatchError(timeline.ErrNotComputed))
		})

		It("reads the series straight off a section copy", func() {
			Expect(section(tl, 0).Computed()).To(BeTrue())
			full, err := section(tl, 0).Full()
			Expect(err).NotTo(HaveOccurred())
			Expect(full.Len()).To(Equal(section(tl, 0).Trajectory().Len()))
			_, err = section(tl, 0).Left()
			Expect(err).To(MatchError(timeline.ErrNotComputed))
		})

		It("pins the first section's start to the floor", func() {
			r := tl.Ranges()[0]
			Expect(r.StartMin).To(Equal(r.StartMax))
			idx, err := tl.IndexTimeStart(0, indexMax)
			Expect(err).NotTo(HaveOccurred())
			Expect(idx).To(Equal(0))
			Expect(tl.SetTimeStartValue(0, 1)).To(MatchError(timeline.ErrOutOfBounds))
		})

		It("rejects an invalid initial state and keeps the old one", func() {
			err := tl.SetInitialState(dynamo.State{0.5, 1.5, 0})
			Expect(err).To(MatchError(compartment.ErrStateRange))
			Expect(section(tl, 0).InitialState).To(Equal(compartment.SIR.InitialState()))
		})

		It("integrates again from a new initial state", func() {
			Expect(tl.SetInitialState(dynamo.State{0.99, 0.01, 0})).To(Succeed())
			Expect(section(tl, 0).Trajectory().States[0]).To(Equal(dynamo.State{0.99, 0.01, 0}))
		})

		It("grows the end ceiling when the end slider reaches it", func() {
			Expect(tl.SetTimeEnd(0, indexMax, indexMax)).To(Succeed())
			r := tl.Ranges()[0]
			Expect(r.End).To(Equal(60.0))
			Expect(r.EndMax).To(Equal(70.0))
		})

		It("accepts a typed end beyond the slider ceiling but not the global one", func() {
			Expect(tl.SetTimeEndValue(0, 200)).To(Succeed())
			Expect(tl.Ranges()[0].EndMax).To(Equal(210.0))
			Expect(tl.SetTimeEndValue(0, timeline.DefaultCeiling+1)).To(MatchError(timeline.ErrOutOfBounds))
		})

		It("refuses bad indices and slider resolutions", func() {
			Expect(tl.SetParameterValue(1, 0, 1)).To(MatchError(timeline.ErrSectionIndex))
			Expect(tl.SetParameterValue(0, 1, 1)).To(MatchError(timeline.ErrOutOfBounds))
			Expect(tl.SetParameter(0, 0, 5, 0)).To(MatchError(timeline.ErrSliderResolution))
			Expect(tl.SetParameter(0, 0, indexMax+1, indexMax)).To(MatchError(timeline.ErrOutOfBounds))
			Expect(tl.SetParameterValue(0, 0, 21)).To(MatchError(timeline.ErrOutOfBounds))
			Expect(tl.SetCurrent(3)).To(MatchError(timeline.ErrSectionIndex))
		})
	})

	Describe("adding a section", func() {
		It("continues the last section from its end with the same parameters", func() {
			tl, err := timeline.New(compartment.SIRS)
			Expect(err).NotTo(HaveOccurred())
			Expect(tl.SetParameterValue(0, 1, 0.3)).To(Succeed())
			Expect(tl.AddSection()).To(Succeed())

			Expect(tl.Len()).To(Equal(2))
			Expect(tl.Current()).To(Equal(1))

			first, added := section(tl, 0), section(tl, 1)
			Expect(added.Params).To(Equal(first.Params))
			Expect(added.Start).To(Equal(first.End))
			Expect(added.End).To(Equal(first.End))
			Expect(added.Trajectory().Len()).To(Equal(1))
			Expect(added.InitialState).To(Equal(first.Trajectory().Final()))
			expectBounds(tl)
		})
	})

	Describe("a timeline of three regimes", func() {
		var tl *timeline.Timeline

		BeforeEach(func() {
			tl = threeRegimes()
		})

		It("keeps every bound and the continuity invariant", func() {
			expectBounds(tl)
			expectContinuity(tl)
		})

		It("produces strictly increasing sample times everywhere", func() {
			for i := 0; i < tl.Len(); i++ {
				expectMonotonic(section(tl, i).Trajectory())
			}
		})

		It("derives neighbour bounds from the boundary times", func() {
			r := tl.Ranges()
			Expect(r[0].EndMin).To(Equal(10.0))
			Expect(r[1].StartMin).To(Equal(0.0))
			Expect(r[1].StartMax).To(Equal(30.0))
			Expect(r[1].EndMin).To(Equal(30.0))
			Expect(r[2].StartMin).To(Equal(10.0))
			Expect(r[2].StartMax).To(Equal(40.0))
			Expect(r[2].EndMin).To(Equal(30.0))
		})

		It("splits every section but the last at its successor's start", func() {
			for i := 0; i < tl.Len()-1; i++ {
				left, err := tl.PlotLeft(i)
				Expect(err).NotTo(HaveOccurred())
				right, err := tl.PlotRight(i)
				Expect(err).NotTo(HaveOccurred())
				pivot := section(tl, i+1).Start

				Expect(left.Times[left.Len()-1]).To(Equal(pivot))
				Expect(right.Times[0]).To(Equal(pivot))
				for k := 0; k < left.Dim(); k++ {
					Expect(left.Values[k][left.Len()-1]).To(Equal(right.Values[k][0]))
				}

				tr := section(tl, i).Trajectory()
				Expect(append(left.Times[:left.Len()-1:left.Len()-1], right.Times[1:]...)).To(Equal(tr.Times))

				_, err = tl.PlotFull(i)
				Expect(err).To(MatchError(timeline.ErrNotComputed))
			}
			_, err := tl.PlotFull(tl.Len() - 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("stitches the followed path across the boundaries", func() {
			path, err := tl.Path()
			Expect(err).NotTo(HaveOccurred())
			Expect(path.Times[0]).To(Equal(0.0))
			Expect(path.Times[path.Len()-1]).To(Equal(80.0))
			for i := 1; i < path.Len(); i++ {
				Expect(path.Times[i]).To(BeNumerically(">", path.Times[i-1]))
			}
			for i := range path.Times {
				sum := path.Values[0][i] + path.Values[1][i] + path.Values[2][i]
				Expect(sum).To(BeNumerically("~", 1.0, 1e-4))
			}
		})

		It("restores continuity after a parameter edit upstream", func() {
			before := section(tl, 2).InitialState
			Expect(tl.SetParameterValue(0, 0, 3.5)).To(Succeed())
			expectContinuity(tl)
			Expect(section(tl, 2).InitialState).NotTo(Equal(before))
		})

		It("never recomputes sections before the edited one", func() {
			first := section(tl, 0).Trajectory()
			Expect(tl.SetParameterValue(2, 0, 0.5)).To(Succeed())
			Expect(section(tl, 0).Trajectory()).To(Equal(first))
		})

		It("restores continuity after a boundary move", func() {
			Expect(tl.SetTimeStartValue(2, 35)).To(Succeed())
			expectContinuity(tl)
			expectBounds(tl)
			left, err := tl.PlotLeft(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(left.Times[left.Len()-1]).To(Equal(35.0))
		})

		It("refuses a start before the predecessor's start and changes nothing", func() {
			before := tl.Ranges()
			Expect(tl.SetTimeStartValue(2, 5)).To(MatchError(timeline.ErrOutOfBounds))
			Expect(tl.SetTimeEndValue(1, 20)).To(MatchError(timeline.ErrOutOfBounds))
			Expect(tl.Ranges()).To(Equal(before))
		})

		It("round-trips every slider", func() {
			for _, idx := range []int{0, 1, 137, 500, 999} {
				Expect(tl.SetTimeStart(1, idx, indexMax)).To(Succeed())
				Expect(tl.IndexTimeStart(1, indexMax)).To(Equal(idx))

				Expect(tl.SetParameter(1, 0, idx, indexMax)).To(Succeed())
				Expect(tl.IndexParameter(1, 0, indexMax)).To(Equal(idx))

				Expect(tl.SetTimeEnd(2, idx, indexMax)).To(Succeed())
				Expect(tl.IndexTimeEnd(2, indexMax)).To(Equal(idx))
				expectContinuity(tl)
			}
		})

		DescribeTable("removing a suffix",
			func(k int) {
				kept := make([]timeline.Section, k)
				for i := range kept {
					kept[i] = section(tl, i)
				}

				Expect(tl.RemoveSection(k)).To(Succeed())
				Expect(tl.Len()).To(Equal(k))
				Expect(tl.Current()).To(Equal(k - 1))
				for i := range kept {
					got := section(tl, i)
					Expect(got.Trajectory()).To(Equal(kept[i].Trajectory()))
					Expect(got.InitialState).To(Equal(kept[i].InitialState))
					Expect(got.Params).To(Equal(kept[i].Params))
				}

				_, err := tl.PlotFull(k - 1)
				Expect(err).NotTo(HaveOccurred())
				expectBounds(tl)
			},
			Entry("after the second section", 2),
			Entry("after the first section", 1),
		)

		It("keeps only the first section when removing at zero", func() {
			Expect(tl.RemoveSection(0)).To(Succeed())
			Expect(tl.Len()).To(Equal(1))
			Expect(tl.Current()).To(Equal(0))
			s := section(tl, 0)
			Expect(s.Trajectory().Start()).To(Equal(0.0))
			Expect(s.InitialState).To(Equal(compartment.SIR.InitialState()))
		})

		It("refuses to remove past the end", func() {
			Expect(tl.RemoveSection(3)).To(MatchError(timeline.ErrSectionIndex))
			Expect(tl.Len()).To(Equal(3))
		})
	})

	Describe("shift mode", func() {
		var tl *timeline.Timeline

		BeforeEach(func() {
			tl = threeRegimes()
			tl.SetShiftMode(true)
		})

		It("drags every later section along with a start", func() {
			Expect(tl.SetTimeStartValue(1, 15)).To(Succeed())
			r := tl.Ranges()
			Expect(r[0].End).To(Equal(55.0))
			Expect(r[1].Start).To(Equal(15.0))
			Expect(r[1].End).To(Equal(45.0))
			Expect(r[2].Start).To(Equal(35.0))
			Expect(r[2].End).To(Equal(85.0))
			expectContinuity(tl)
			expectBounds(tl)
		})

		It("drags later sections along with an end", func() {
			Expect(tl.SetTimeEndValue(1, 35)).To(Succeed())
			r := tl.Ranges()
			Expect(r[1].End).To(Equal(35.0))
			Expect(r[2].Start).To(Equal(25.0))
			Expect(r[2].End).To(Equal(75.0))
			expectContinuity(tl)
		})

		It("refuses a shift that crosses the predecessor's start", func() {
			before := tl.Ranges()
			Expect(tl.ShiftTimeRanges(2, -25)).To(MatchError(timeline.ErrShiftCrossing))
			Expect(tl.ShiftTimeRanges(0, 5)).To(MatchError(timeline.ErrShiftCrossing))
			Expect(tl.Ranges()).To(Equal(before))
		})

		It("refuses a shift past the ceiling", func() {
			Expect(tl.ShiftTimeRanges(1, timeline.DefaultCeiling)).To(MatchError(timeline.ErrOutOfBounds))
		})
	})

	Describe("epidemic regimes", func() {
		It("bends the infection curve down during a lockdown", func() {
			tl := threeRegimes()
			right, err := tl.PlotRight(0)
			Expect(err).NotTo(HaveOccurred())
			lockdown := section(tl, 1).Trajectory()

			Expect(lockdown.States[0][1]).To(Equal(right.Values[1][0]))

			// With R0 below one every susceptible fraction gives dI < 0.
			for i := 1; i < lockdown.Len(); i++ {
				Expect(lockdown.States[i][1]).To(BeNumerically("<=", lockdown.States[i-1][1]))
			}
		})
	})
})
