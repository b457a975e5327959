package metrics

import (
	"strconv"

	"github.com/povarna/sonar-sweep/internal/models"
	"github.com/povarna/sonar-sweep/internal/trend"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	sweepsTotal          *prometheus.CounterVec
	measurementsTotal    prometheus.Counter
	classificationsTotal *prometheus.CounterVec
	invalidInputTotal    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sweepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sonar_sweeps_total",
			Help: "Completed sweeps by entry point.",
		}, []string{"source"}),
		measurementsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sonar_measurements_total",
			Help: "Depth measurements received.",
		}),
		classificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sonar_classifications_total",
			Help: "Classified values by trend label.",
		}, []string{"label", "windowed"}),
		invalidInputTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sonar_invalid_input_total",
			Help: "Rejected inputs by entry point.",
		}, []string{"source"}),
	}

	reg.MustRegister(m.sweepsTotal, m.measurementsTotal, m.classificationsTotal, m.invalidInputTotal)
	return m
}

// ObserveReport records a completed sweep over n raw measurements.
func (m *Metrics) ObserveReport(source string, measurements int, report models.Report) {
	m.sweepsTotal.WithLabelValues(source).Inc()
	m.measurementsTotal.Add(float64(measurements))
	for _, r := range report.Records {
		m.ObserveRecord(r, report.Windowed)
	}
}

func (m *Metrics) ObserveMeasurement() {
	m.measurementsTotal.Inc()
}

func (m *Metrics) ObserveRecord(record trend.Record, windowed bool) {
	m.classificationsTotal.WithLabelValues(string(record.Label), strconv.FormatBool(windowed)).Inc()
}

func (m *Metrics) InvalidInput(source string) {
	m.invalidInputTotal.WithLabelValues(source).Inc()
}
