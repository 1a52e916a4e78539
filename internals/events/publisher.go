// internals/events/publisher.go
package events

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

type AttendanceEvent struct {
	EventType     string    `json:"eventType"`
	Payload       any       `json:"payload"`
	CorrelationID string    `json:"correlationId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher is the fire-and-forget sink the engines mutate through. It must
// never block the caller and never surface a failure to it.
type Publisher interface {
	PublishAttendanceEvent(eventType string, payload any, correlationID string)
}

// Sink is the actual outbound client behind the queue (broker producer,
// webhook, ...). Wired at startup.
type Sink interface {
	Send(ctx context.Context, ev AttendanceEvent) error
}

/* =========================================================
   Queue publisher
   Bounded queue + one worker. Retry with backoff, then log
   and drop. A full queue also drops (callers never wait).
   ========================================================= */

type QueuePublisher struct {
	sink       Sink
	ch         chan AttendanceEvent
	maxRetries int
	backoff    time.Duration
	sendTO     time.Duration

	once sync.Once
	done chan struct{}
	wg   sync.WaitGroup
}

type QueueConfig struct {
	Size       int           // default 256
	MaxRetries int           // default 3
	Backoff    time.Duration // default 200ms, doubled per attempt
	SendTO     time.Duration // per-send timeout, default 5s
}

func NewQueuePublisher(sink Sink, cfg QueueConfig) *QueuePublisher {
	if cfg.Size <= 0 {
		cfg.Size = 256
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 200 * time.Millisecond
	}
	if cfg.SendTO <= 0 {
		cfg.SendTO = 5 * time.Second
	}
	p := &QueuePublisher{
		sink:       sink,
		ch:         make(chan AttendanceEvent, cfg.Size),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		sendTO:     cfg.SendTO,
		done:       make(chan struct{}),
	}
	p.wg.Add(1)
	go p.drain()
	return p
}

func (p *QueuePublisher) PublishAttendanceEvent(eventType string, payload any, correlationID string) {
	ev := AttendanceEvent{
		EventType:     eventType,
		Payload:       payload,
		CorrelationID: correlationID,
		OccurredAt:    time.Now(),
	}
	select {
	case p.ch <- ev:
	default:
		log.Printf("[WARN] event queue full, dropping %s event (correlation=%s)", eventType, correlationID)
	}
}

func (p *QueuePublisher) drain() {
	defer p.wg.Done()
	for {
		select {
		case ev := <-p.ch:
			p.deliver(ev)
		case <-p.done:
			// flush what is already queued, then stop
			for {
				select {
				case ev := <-p.ch:
					p.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (p *QueuePublisher) deliver(ev AttendanceEvent) {
	delay := p.backoff
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), p.sendTO)
		err := p.sink.Send(ctx, ev)
		cancel()
		if err == nil {
			return
		}
		if attempt >= p.maxRetries {
			log.Printf("[ERROR] dropping %s event after %d attempts (correlation=%s): %v",
				ev.EventType, attempt, ev.CorrelationID, err)
			return
		}
		time.Sleep(delay)
		delay *= 2
	}
}

// Close stops the worker after flushing queued events.
func (p *QueuePublisher) Close() {
	p.once.Do(func() { close(p.done) })
	p.wg.Wait()
}

/* =========================================================
   Default sink
   ========================================================= */

// LogSink logs events instead of shipping them. Stand-in until a broker
// producer is wired via EVENT_SINK config.
type LogSink struct{}

func (LogSink) Send(_ context.Context, ev AttendanceEvent) error {
	log.Printf("[EVENT] attendance %s (correlation=%s)", ev.EventType, ev.CorrelationID)
	return nil
}
