// Package monitoring reports unexpected-but-recoverable conditions, such as
// corrupted persisted state, without failing the caller.
package monitoring

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type Reporter interface {
	Capture(event string, fields map[string]interface{})
}

var eventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "safeops",
		Subsystem: "monitoring",
		Name:      "events_total",
		Help:      "Total number of monitoring events by event name",
	},
	[]string{"event"},
)

// Register adds the monitoring collectors to reg.
func Register(reg prometheus.Registerer) error {
	return reg.Register(eventsTotal)
}

// LogReporter logs every event at warn level and counts it.
type LogReporter struct {
	log     *logrus.Entry
	counter *prometheus.CounterVec
}

func NewLogReporter(logger *logrus.Logger) *LogReporter {
	return &LogReporter{
		log:     logger.WithField("component", "monitoring"),
		counter: eventsTotal,
	}
}

func (r *LogReporter) Capture(event string, fields map[string]interface{}) {
	r.counter.WithLabelValues(event).Inc()
	r.log.WithFields(logrus.Fields(fields)).Warn(event)
}

var (
	defaultReporter Reporter = NewLogReporter(logrus.StandardLogger())
	mu              sync.RWMutex
)

func Default() Reporter {
	mu.RLock()
	defer mu.RUnlock()
	return defaultReporter
}

func SetDefault(r Reporter) {
	mu.Lock()
	defer mu.Unlock()
	defaultReporter = r
}

type Event struct {
	Name   string
	Fields map[string]interface{}
}

// Recorder keeps events in memory. Useful in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Capture(event string, fields map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: event, Fields: fields})
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}
