package store

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes the store sizes as Prometheus gauges:
//
//   - qa_questions_stored
//   - qa_answers_stored
//
// Values are read on scrape, each under its own read lock.
type Collector struct {
	s         *Store
	questions *prometheus.Desc
	answers   *prometheus.Desc
}

// NewCollector returns a Collector for s. Register it once, e.g.
// prometheus.MustRegister(store.NewCollector(st)).
func NewCollector(s *Store) *Collector {
	return &Collector{
		s: s,
		questions: prometheus.NewDesc(
			"qa_questions_stored",
			"Number of questions currently held in memory.",
			nil, nil,
		),
		answers: prometheus.NewDesc(
			"qa_answers_stored",
			"Number of answers currently held in memory.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.questions
	ch <- c.answers
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.questions, prometheus.GaugeValue, float64(c.s.QuestionCount()))
	ch <- prometheus.MustNewConstMetric(c.answers, prometheus.GaugeValue, float64(c.s.AnswerCount()))
}
