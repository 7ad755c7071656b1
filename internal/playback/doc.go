// Package playback keeps the selected year consistent across the views that
// display it and advances it on a timer.
//
// A [Controller] owns the year list, the current year, the play state and the
// single timer handle. Every year change is pushed synchronously to a [Sink]:
// the slider position, the year label and the filter of both cutblock layers.
//
// # Timers
//
// Repeating ticks come from a [Scheduler]. Starting playback always cancels
// the previous handle first, and each tick carries the generation of the
// handle that scheduled it, so a tick delivered after cancellation is
// dropped. At most one timer ever advances the year.
//
//   - [TickerScheduler]: wall-clock ticks from a time.Ticker
//   - [ManualScheduler]: ticks fired on demand, for tests and stepping
//
// # Example
//
//	ctrl := playback.New(playback.Config{
//	    Years:    axis.Years,
//	    Field:    "HARVEST_START_YEAR_CALENDAR",
//	    Mode:     filter.Cumulative,
//	    Interval: 200 * time.Millisecond,
//	}, sink, playback.TickerScheduler{})
//	ctrl.Init(true)
package playback
