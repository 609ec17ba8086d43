// Package mqtt provides the MQTT client homebar uses to reach the home
// platform.
//
// The client wraps paho.mqtt.golang with:
//   - Auto-reconnect with subscriptions restored after each reconnect
//   - A retained Last Will on homebar/system/status for offline detection
//   - Input validation and bounded waits on publish and subscribe
//   - Panic recovery around message handlers
//
// Commands flow out on homebar/command/<service_id> and
// homebar/scene/<scene_id>/activate; the platform publishes the home
// snapshot, retained, on homebar/snapshot.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.Snapshot(), 1,
//	    func(topic string, payload []byte) error {
//	        return sync.Apply(payload)
//	    })
package mqtt
