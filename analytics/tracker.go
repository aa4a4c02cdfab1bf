// Package analytics reports anonymized usage events to a Measurement
// Protocol endpoint. Nothing is sent unless the build runs in production,
// analytics are enabled and the user granted consent.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "analytics")

const (
	ProductionEnvironment = "production"
	PageViewEvent         = "page_view"

	defaultQueueSize = 64
	requestTimeout   = 5 * time.Second
)

type Config struct {
	Enabled       bool
	Environment   string
	MeasurementID string
	APISecret     string
	Endpoint      string
	// RetryMax of 0 sends each event once and forgets about it.
	RetryMax  int
	QueueSize int
	ChainID   uint64
}

type event struct {
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params"`
}

type payload struct {
	ClientID string  `json:"client_id"`
	Events   []event `json:"events"`
}

type Tracker struct {
	cfg      Config
	active   bool
	clientID string
	client   *retryablehttp.Client

	mu     sync.RWMutex
	closed bool
	queue  chan event

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	dropped atomic.Uint64
}

// NewTracker starts the delivery worker when analytics may run. Otherwise
// the returned tracker ignores every call.
func NewTracker(cfg Config, store Store) *Tracker {
	t := &Tracker{
		cfg:  cfg,
		done: make(chan struct{}),
	}
	t.active = cfg.Enabled &&
		cfg.Environment == ProductionEnvironment &&
		cfg.Endpoint != "" &&
		HasConsent(store)
	if !t.active {
		close(t.done)
		return t
	}

	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	t.clientID = ClientID(store)
	t.queue = make(chan event, cfg.QueueSize)
	t.ctx, t.cancel = context.WithCancel(context.Background())

	t.client = retryablehttp.NewClient()
	t.client.HTTPClient.Timeout = requestTimeout
	t.client.RetryMax = cfg.RetryMax
	t.client.RetryWaitMin = 100 * time.Millisecond
	t.client.RetryWaitMax = time.Second
	t.client.Logger = leveledLogger{log}

	go t.run()
	return t
}

func (t *Tracker) Active() bool {
	return t.active
}

// Dropped counts events discarded because the queue was full.
func (t *Tracker) Dropped() uint64 {
	return t.dropped.Load()
}

// TrackEvent queues one event. It never blocks; when the queue is full the
// event is dropped.
func (t *Tracker) TrackEvent(name, category, action string, label ...string) {
	params := map[string]interface{}{
		"event_category": category,
		"event_action":   action,
	}
	if len(label) > 0 && label[0] != "" {
		params["event_label"] = label[0]
	}
	t.enqueue(event{Name: name, Params: params})
}

// TrackPage reports a page view of the anonymized path.
func (t *Tracker) TrackPage(path string) {
	t.enqueue(event{
		Name:   PageViewEvent,
		Params: map[string]interface{}{"page_path": AnonymizePath(path)},
	})
}

func (t *Tracker) enqueue(e event) {
	if !t.active {
		return
	}
	if t.cfg.ChainID != 0 {
		e.Params["chain_id"] = strconv.FormatUint(t.cfg.ChainID, 10)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.queue <- e:
	default:
		t.dropped.Add(1)
		log.WithField("event", e.Name).Warn("analytics queue is full, dropping event")
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
// When ctx expires first, in-flight requests are aborted and the rest of the
// queue is discarded.
func (t *Tracker) Close(ctx context.Context) error {
	if !t.active {
		return nil
	}
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.queue)
	}
	t.mu.Unlock()

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		t.cancel()
		<-t.done
		return ctx.Err()
	}
}

func (t *Tracker) run() {
	defer close(t.done)
	defer t.cancel()
	for e := range t.queue {
		if t.ctx.Err() != nil {
			continue
		}
		if err := t.send(t.ctx, e); err != nil {
			log.WithError(err).WithField("event", e.Name).Debug("couldn't deliver analytics event")
		}
	}
}

func (t *Tracker) endpoint() (string, error) {
	u, err := url.Parse(t.cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid analytics endpoint: %w", err)
	}
	q := u.Query()
	q.Set("measurement_id", t.cfg.MeasurementID)
	q.Set("api_secret", t.cfg.APISecret)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (t *Tracker) send(ctx context.Context, e event) error {
	endpoint, err := t.endpoint()
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload{ClientID: t.clientID, Events: []event{e}})
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("fail to create request, err: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("analytics endpoint returned %s", resp.Status)
	}
	return nil
}

// leveledLogger routes retryablehttp logs to logrus at the matching level.
type leveledLogger struct {
	entry *logrus.Entry
}

func (l leveledLogger) fields(keysAndValues []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.entry.WithFields(fields)
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Trace(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}
