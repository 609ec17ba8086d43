package mqtt

import "fmt"

// TopicPrefix is the root of every homebar topic.
const TopicPrefix = "homebar"

// Topics provides builders for homebar MQTT topics.
//
// The home platform side of the bridge consumes commands and scene
// activations and publishes the retained snapshot:
//
//	homebar/command/<service_id>        commands for one service
//	homebar/scene/<scene_id>/activate   scene activation
//	homebar/snapshot                    retained home snapshot (JSON)
//	homebar/system/status               retained online/offline status (LWT)
type Topics struct{}

// Command returns the topic a service command is published to.
//
// Example: homebar/command/A1B2C3D4-0001
func (Topics) Command(serviceID string) string {
	return fmt.Sprintf("%s/command/%s", TopicPrefix, serviceID)
}

// SceneActivate returns the topic a scene activation is published to.
//
// Example: homebar/scene/C0FFEE00-0001/activate
func (Topics) SceneActivate(sceneID string) string {
	return fmt.Sprintf("%s/scene/%s/activate", TopicPrefix, sceneID)
}

// Snapshot returns the default retained snapshot topic.
func (Topics) Snapshot() string {
	return TopicPrefix + "/snapshot"
}

// SystemStatus returns the retained status topic used for the LWT.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}

// AllCommands matches every service command.
//
// Pattern: homebar/command/+
func (Topics) AllCommands() string {
	return TopicPrefix + "/command/+"
}

// AllSceneActivations matches every scene activation.
//
// Pattern: homebar/scene/+/activate
func (Topics) AllSceneActivations() string {
	return TopicPrefix + "/scene/+/activate"
}
