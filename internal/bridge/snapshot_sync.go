package bridge

import (
	"fmt"

	"github.com/nickustinov/homebar/internal/home"
	"github.com/nickustinov/homebar/internal/infrastructure/mqtt"
)

// Subscriber is the part of the MQTT client SnapshotSync needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// SnapshotSync keeps a home.Store in step with the retained snapshot topic.
type SnapshotSync struct {
	store  *home.Store
	topic  string
	logger Logger
}

// NewSnapshotSync creates a sync publishing into store from topic.
func NewSnapshotSync(store *home.Store, topic string) *SnapshotSync {
	return &SnapshotSync{
		store:  store,
		topic:  topic,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the sync.
func (s *SnapshotSync) SetLogger(logger Logger) {
	s.logger = logger
}

// Start subscribes to the snapshot topic. The broker delivers the retained
// snapshot immediately, and again after every reconnect.
func (s *SnapshotSync) Start(sub Subscriber, qos byte) error {
	if err := sub.Subscribe(s.topic, qos, s.Handle); err != nil {
		return fmt.Errorf("subscribing to %s: %w", s.topic, err)
	}
	s.logger.Info("snapshot sync started", "topic", s.topic)
	return nil
}

// Handle decodes one snapshot payload and publishes it to the store. An
// empty payload (a cleared retained message) is ignored. An invalid payload
// leaves the current snapshot in place.
func (s *SnapshotSync) Handle(topic string, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}

	snap, err := home.Decode(payload, home.FormatJSON)
	if err != nil {
		return fmt.Errorf("decoding snapshot from %s: %w", topic, err)
	}

	version := s.store.Publish(snap)
	rooms, services, scenes := snap.Counts()
	s.logger.Info("snapshot updated",
		"version", version,
		"rooms", rooms,
		"services", services,
		"scenes", scenes,
	)
	return nil
}
