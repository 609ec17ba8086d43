package resolver

import (
	"strings"

	"github.com/nickustinov/homebar/internal/home"
)

const scenePrefix = "scene."

// byScene handles "scene.<name>" (exact, then unique substring, else a
// terminal NotFound) and bare queries that exactly name a scene.
func byScene(req *request) (Result, bool) {
	if hasPrefixFold(req.text, scenePrefix) {
		name := req.text[len(scenePrefix):]
		if name == "" {
			return notFound(req.text), true
		}

		scene, ok := findByName(req.snap.Scenes(), sceneName, name)
		if !ok {
			return notFound(scenePrefix + name), true
		}
		return sceneResult(scene), true
	}

	for _, scene := range req.snap.Scenes() {
		if strings.EqualFold(scene.Name, req.text) {
			return sceneResult(scene), true
		}
	}

	return Result{}, false
}

func sceneName(s home.Scene) string { return s.Name }
