package sleep

import "time"

type Unit string

const (
	UnitHours   Unit = "hours"
	UnitPercent Unit = "percent"
	UnitMinutes Unit = "minutes"
)

// Metric names one charted field of Metrics.
type Metric string

const (
	MetricTimeInBed        Metric = "time_in_bed"
	MetricTimeAsleep       Metric = "time_asleep"
	MetricEfficiency       Metric = "sleep_efficiency"
	MetricFallAsleep       Metric = "time_to_fall_asleep"
	MetricTryingToSleep    Metric = "time_trying_to_sleep"
	MetricTimeAwakeInNight Metric = "time_awake_in_night"
	MetricBiteGuard        Metric = "bite_guard_usage"
)

// AllMetrics returns every charted metric in display order.
func AllMetrics() []Metric {
	return []Metric{
		MetricTimeInBed,
		MetricTimeAsleep,
		MetricEfficiency,
		MetricFallAsleep,
		MetricTryingToSleep,
		MetricTimeAwakeInNight,
		MetricBiteGuard,
	}
}

func (m Metric) Title() string {
	switch m {
	case MetricTimeInBed:
		return "Time in Bed"
	case MetricTimeAsleep:
		return "Time Asleep"
	case MetricEfficiency:
		return "Sleep Efficiency"
	case MetricFallAsleep:
		return "Time to Fall Asleep"
	case MetricTryingToSleep:
		return "Trying to Sleep After Awakening"
	case MetricTimeAwakeInNight:
		return "Time Awake in Night"
	case MetricBiteGuard:
		return "Bite Guard Usage"
	default:
		return string(m)
	}
}

func (m Metric) Unit() Unit {
	switch m {
	case MetricTimeInBed, MetricTimeAsleep:
		return UnitHours
	case MetricEfficiency, MetricBiteGuard:
		return UnitPercent
	default:
		return UnitMinutes
	}
}

// Value extracts this metric from a Metrics entry.
func (m Metric) Value(e Metrics) *float64 {
	switch m {
	case MetricTimeInBed:
		return e.TotalTimeInBed
	case MetricTimeAsleep:
		return e.TotalTimeAsleep
	case MetricEfficiency:
		return e.SleepEfficiency
	case MetricFallAsleep:
		return e.TimeToFallAsleepMinutes
	case MetricTryingToSleep:
		return e.TimeTryingToSleepMinutes
	case MetricTimeAwakeInNight:
		return e.TimeAwakeInNightMinutes
	case MetricBiteGuard:
		return e.BiteGuardUsage
	default:
		return nil
	}
}

// Column builds the series of this metric over entries.
func (m Metric) Column(entries []Metrics) Series {
	s := make(Series, len(entries))
	for i, e := range entries {
		s[i] = m.Value(e)
	}
	return s
}

const DefaultSummaryWindow = 7

// DefaultTrendWindows is the composite used for chart trend lines.
var DefaultTrendWindows = []int{5, 7, 9}

type Options struct {
	Range Range
	// TrendWindows are combined with CompositeAverage for chart trend lines.
	TrendWindows []int
	// SummaryWindow is the rolling window behind the summary figures.
	SummaryWindow int
	Today         time.Time
	Location      *time.Location
}

func (o Options) withDefaults() Options {
	if o.TrendWindows == nil {
		o.TrendWindows = DefaultTrendWindows
	}
	if o.SummaryWindow <= 0 {
		o.SummaryWindow = DefaultSummaryWindow
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Today.IsZero() {
		o.Today = time.Now().In(o.Location)
	}
	return o
}

// Chart is one metric's raw values and trend line, aligned with Dates. Only
// dates that have a record appear; the trend is computed over the gap-filled
// series and projected back.
type Chart struct {
	Metric Metric   `json:"metric"`
	Title  string   `json:"title"`
	Unit   Unit     `json:"unit"`
	Dates  []string `json:"dates"`
	Values Series   `json:"values"`
	Trend  Series   `json:"trend"`
}

type Summary struct {
	Metric    Metric   `json:"metric"`
	Title     string   `json:"title"`
	Unit      Unit     `json:"unit"`
	Value     *float64 `json:"value"`
	Formatted string   `json:"formatted"`
}

type Dashboard struct {
	Range         string    `json:"range"`
	TrendWindows  []int     `json:"trend_windows"`
	SummaryWindow int       `json:"summary_window"`
	Records       int       `json:"records"`
	Metrics       []Metrics `json:"metrics"`
	Charts        []Chart   `json:"charts"`
	Summary       []Summary `json:"summary"`
}

// BuildDashboard runs the whole pipeline: trailing filter, derivation, gap
// filling, smoothing and summary extraction.
func BuildDashboard(records []Record, opts Options) (Dashboard, error) {
	opts = opts.withDefaults()

	filtered := FilterTrailing(records, opts.Range, opts.Today)
	derived, err := DeriveAll(filtered, opts.Location)
	if err != nil {
		return Dashboard{}, err
	}

	dense, err := Densify(derived)
	if err != nil {
		return Dashboard{}, err
	}

	dash := Dashboard{
		Range:         opts.Range.String(),
		TrendWindows:  opts.TrendWindows,
		SummaryWindow: opts.SummaryWindow,
		Records:       len(dense.Original),
		Metrics:       make([]Metrics, 0, len(dense.Original)),
	}
	for _, i := range dense.Original {
		dash.Metrics = append(dash.Metrics, dense.Entries[i])
	}

	var (
		metrics = AllMetrics()
		dates   = dense.OriginalDates()
	)
	dash.Charts = make([]Chart, 0, len(metrics))
	dash.Summary = make([]Summary, 0, len(metrics))
	for _, m := range metrics {
		column := m.Column(dense.Entries)

		dash.Charts = append(dash.Charts, Chart{
			Metric: m,
			Title:  m.Title(),
			Unit:   m.Unit(),
			Dates:  dates,
			Values: dense.Project(column),
			Trend:  dense.Project(CompositeAverage(column, opts.TrendWindows)),
		})

		latest := LatestNonNull(RollingAverage(column, opts.SummaryWindow))
		dash.Summary = append(dash.Summary, Summary{
			Metric:    m,
			Title:     m.Title(),
			Unit:      m.Unit(),
			Value:     latest,
			Formatted: FormatValue(latest, m.Unit()),
		})
	}

	return dash, nil
}

// SummaryFor returns the summary entry of m, if present.
func (d Dashboard) SummaryFor(m Metric) (Summary, bool) {
	for _, s := range d.Summary {
		if s.Metric == m {
			return s, true
		}
	}
	return Summary{}, false
}

// ChartFor returns the chart of m, if present.
func (d Dashboard) ChartFor(m Metric) (Chart, bool) {
	for _, c := range d.Charts {
		if c.Metric == m {
			return c, true
		}
	}
	return Chart{}, false
}
