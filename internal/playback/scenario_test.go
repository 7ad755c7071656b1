package playback

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cutlapse/internal/filter"
)

var _ = Describe("Controller", func() {
	var (
		ctrl  *Controller
		sink  *recordingSink
		sched *ManualScheduler
	)

	build := func(mode filter.Mode, years ...int) {
		sink = newRecordingSink()
		sched = NewManualScheduler()
		ctrl = New(Config{Years: years, Field: "year", Mode: mode, Interval: 200 * time.Millisecond}, sink, sched)
	}

	Context("cumulative playback over three years", func() {
		BeforeEach(func() {
			build(filter.Cumulative, 1990, 1995, 2000)
		})

		It("walks the filter forward and wraps", func() {
			ctrl.SetYear(1995)
			Expect(sink.filters[FillLayer].String()).To(Equal("year ≤ 1995"))

			ctrl.Start()
			sched.Fire()
			Expect(sink.filters[FillLayer].String()).To(Equal("year ≤ 2000"))
			Expect(sink.filters[LineLayer].String()).To(Equal("year ≤ 2000"))

			sched.Fire()
			Expect(sink.filters[FillLayer].String()).To(Equal("year ≤ 1990"))
			Expect(sink.label).To(Equal("1990"))
			Expect(sink.slider).To(Equal(1990))
		})

		It("advances through exactly the next n entries", func() {
			ctrl.Init(true)
			sched.FireN(7)
			Expect(sink.history()).To(Equal([]int{1990, 1995, 2000, 1990, 1995, 2000, 1990, 1995}))
		})

		It("never keeps more than one timer alive", func() {
			ctrl.Init(true)
			for _, d := range []time.Duration{100, 50, 400} {
				Expect(ctrl.SetSpeed(d * time.Millisecond)).To(Succeed())
				Expect(sched.Live()).To(Equal(1))
			}
			ctrl.Toggle()
			ctrl.Toggle()
			ctrl.Start()
			Expect(sched.Live()).To(Equal(1))
			Expect(sched.Interval()).To(Equal(400 * time.Millisecond))
		})

		It("stops on slider input and snaps to the nearest year", func() {
			ctrl.Init(true)
			ctrl.Seek(1992.5)
			Expect(ctrl.Playing()).To(BeFalse())
			Expect(ctrl.Year()).To(Equal(1990))
			Expect(sink.glyphs).To(HaveLen(3))
			Expect(sink.glyphs[len(sink.glyphs)-1]).To(Equal(GlyphPlay))
		})
	})

	Context("with no years", func() {
		BeforeEach(func() {
			build(filter.Exact)
		})

		It("ignores play requests", func() {
			ctrl.Init(true)
			ctrl.Toggle()
			Expect(ctrl.Playing()).To(BeFalse())
			Expect(sched.Live()).To(BeZero())
			Expect(sink.filters).To(BeEmpty())
		})
	})
})
