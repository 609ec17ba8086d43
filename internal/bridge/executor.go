package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/nickustinov/homebar/internal/action"
	"github.com/nickustinov/homebar/internal/home"
	"github.com/nickustinov/homebar/internal/infrastructure/mqtt"
)

// Publisher is the part of the MQTT client the Executor needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	IsConnected() bool
}

// Logger defines the logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// BreakerSettings tunes the Executor's circuit breaker.
type BreakerSettings struct {
	// FailureThreshold consecutive publish failures open the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before a probe.
	OpenTimeout time.Duration
}

// CommandMessage is published to homebar/command/<service_id>.
type CommandMessage struct {
	RequestID   string           `json:"request_id"`
	ServiceID   string           `json:"service_id"`
	ServiceType home.ServiceType `json:"service_type"`
	Command     action.Command   `json:"command"`
	Value       *float64         `json:"value,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

// SceneMessage is published to homebar/scene/<scene_id>/activate.
type SceneMessage struct {
	RequestID string    `json:"request_id"`
	SceneID   string    `json:"scene_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Executor publishes commands for the action Engine.
//
// Thread Safety:
//   - Safe for concurrent use; the breaker serialises its own state.
type Executor struct {
	pub     Publisher
	qos     byte
	breaker *gobreaker.CircuitBreaker
	topics  mqtt.Topics
	logger  Logger
	now     func() time.Time
}

// NewExecutor creates an Executor publishing through pub at the given QoS.
func NewExecutor(pub Publisher, qos byte, settings BreakerSettings) *Executor {
	e := &Executor{
		pub:    pub,
		qos:    qos,
		logger: noopLogger{},
		now:    time.Now,
	}

	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}
	e.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mqtt-commands",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return e
}

// NewOfflineExecutor returns an Executor with no transport, used when the
// MQTT bridge is disabled. Every command fails with ErrBridgeUnavailable.
func NewOfflineExecutor() *Executor {
	return NewExecutor(offline{}, 0, BreakerSettings{})
}

type offline struct{}

func (offline) Publish(string, []byte, byte, bool) error { return mqtt.ErrNotConnected }
func (offline) IsConnected() bool                        { return false }

// SetLogger sets the logger for the executor.
func (e *Executor) SetLogger(logger Logger) {
	e.logger = logger
}

// BreakerState reports "closed", "half-open" or "open".
func (e *Executor) BreakerState() string {
	return e.breaker.State().String()
}

// Execute publishes req for one service.
func (e *Executor) Execute(ctx context.Context, svc home.Service, req action.Request) error {
	msg := CommandMessage{
		RequestID:   uuid.NewString(),
		ServiceID:   svc.ID,
		ServiceType: svc.Type,
		Command:     req.Command,
		Timestamp:   e.now().UTC(),
	}
	if req.Command.TakesValue() {
		value := req.Value
		msg.Value = &value
	}
	return e.send(ctx, e.topics.Command(svc.ID), msg)
}

// ActivateScene publishes a scene activation.
func (e *Executor) ActivateScene(ctx context.Context, scene home.Scene) error {
	msg := SceneMessage{
		RequestID: uuid.NewString(),
		SceneID:   scene.ID,
		Timestamp: e.now().UTC(),
	}
	return e.send(ctx, e.topics.SceneActivate(scene.ID), msg)
}

func (e *Executor) send(ctx context.Context, topic string, msg any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.pub.IsConnected() {
		return fmt.Errorf("%w: %w", action.ErrBridgeUnavailable, mqtt.ErrNotConnected)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding command: %w", err)
	}

	_, err = e.breaker.Execute(func() (interface{}, error) {
		return nil, e.pub.Publish(topic, payload, e.qos, false)
	})
	switch {
	case err == nil:
		e.logger.Debug("command published", "topic", topic)
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests),
		errors.Is(err, mqtt.ErrNotConnected):
		return fmt.Errorf("%w: %w", action.ErrBridgeUnavailable, err)
	default:
		return fmt.Errorf("command not delivered: %w", err)
	}
}
