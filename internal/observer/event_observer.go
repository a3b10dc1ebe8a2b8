package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/photo-compliance-go/internal/logger"
)

// ComplianceEvent describes one step of a session's lifecycle
type ComplianceEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	SessionID      string                 `json:"session_id"`
	Mode           string                 `json:"mode"`
	Source         string                 `json:"source,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of compliance event
type EventType string

const (
	SourceLoaded        EventType = "source_loaded"
	SourceLoadFailed    EventType = "source_load_failed"
	EvaluationStarted   EventType = "evaluation_started"
	EvaluationCompleted EventType = "evaluation_completed"
	ExportCompleted     EventType = "export_completed"
	// ExportBlocked is published when hard fails prevent the output from being written
	ExportBlocked EventType = "export_blocked"
	ExportFailed  EventType = "export_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event ComplianceEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event ComplianceEvent)
}

// LoggingObserver logs compliance events
type LoggingObserver struct {
	logger *logrus.Logger
}

func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles compliance events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event ComplianceEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"session_id":      event.SessionID,
		"mode":            event.Mode,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}
	if event.Source != "" {
		fields["source"] = event.Source
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case SourceLoaded:
		entry.Info("Source loaded")
	case SourceLoadFailed:
		entry.Error("Source could not be loaded")
	case EvaluationStarted:
		entry.Debug("Compliance evaluation started")
	case EvaluationCompleted:
		entry.Info("Compliance evaluation completed")
	case ExportCompleted:
		entry.Info("Export completed")
	case ExportBlocked:
		entry.Warn("Export blocked by hard fail checks")
	case ExportFailed:
		entry.Error("Export failed")
	default:
		entry.Info("Compliance event occurred")
	}
}

func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver counts session outcomes
type MetricsObserver struct {
	mu                  sync.RWMutex
	sourcesLoaded       int64
	sourceFailures      int64
	evaluations         int64
	exportsCompleted    int64
	exportsBlocked      int64
	exportsFailed       int64
	totalProcessingTime time.Duration
}

func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles compliance events by collecting counters
func (o *MetricsObserver) OnEvent(ctx context.Context, event ComplianceEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case SourceLoaded:
		o.sourcesLoaded++
	case SourceLoadFailed:
		o.sourceFailures++
	case EvaluationCompleted:
		o.evaluations++
		o.totalProcessingTime += event.ProcessingTime
	case ExportCompleted:
		o.exportsCompleted++
	case ExportBlocked:
		o.exportsBlocked++
	case ExportFailed:
		o.exportsFailed++
	}
}

func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns a snapshot of the counters
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avg := time.Duration(0)
	if o.evaluations > 0 {
		avg = o.totalProcessingTime / time.Duration(o.evaluations)
	}
	return map[string]interface{}{
		"sources_loaded":        o.sourcesLoaded,
		"source_failures":       o.sourceFailures,
		"evaluations":           o.evaluations,
		"exports_completed":     o.exportsCompleted,
		"exports_blocked":       o.exportsBlocked,
		"exports_failed":        o.exportsFailed,
		"avg_evaluation_time":   avg,
		"total_evaluation_time": o.totalProcessingTime,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

func NewEventPublisher() Subject {
	return &EventPublisher{observers: make([]Observer, 0)}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes the first observer with the same name
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers fans the event out to every observer and returns once all have handled it.
// A panicking observer is logged and does not affect the others.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event ComplianceEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var wg sync.WaitGroup
	for _, observer := range observers {
		wg.Add(1)
		go func(obs Observer) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Logger.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
	wg.Wait()
}
