package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nickustinov/homebar/internal/home"
)

func TestLookupType(t *testing.T) {
	tests := []struct {
		word string
		want home.ServiceType
		ok   bool
	}{
		{"light", home.ServiceTypeLightbulb, true},
		{"Lights", home.ServiceTypeLightbulb, true},
		{"switches", home.ServiceTypeSwitch, true},
		{"shades", home.ServiceTypeWindowCovering, true},
		{"valves", home.ServiceTypeValve, true},
		{"aircon", home.ServiceTypeHeaterCooler, true},
		{"window_covering", home.ServiceTypeWindowCovering, true},
		{"alarm", home.ServiceTypeSecuritySystem, true},
		{"garage", home.ServiceTypeGarageDoorOpener, true},
		{"things", "", false},
		{"es", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := lookupType(tt.word)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLooksLikeIdentifier(t *testing.T) {
	assert.True(t, looksLikeIdentifier("8F1C22AB-0000-4C1D-9E6F-ABCDEF012345"))
	assert.True(t, looksLikeIdentifier("abc-123"))
	assert.False(t, looksLikeIdentifier("ABCDEF"), "no hyphen")
	assert.False(t, looksLikeIdentifier("living-room"), "non-hex letters")
	assert.False(t, looksLikeIdentifier("AB CD-12"), "space")
}

func TestNarrow(t *testing.T) {
	a := home.Service{ID: "a", Name: "Lamp"}
	b := home.Service{ID: "b", Name: "Desk Lamp"}
	c := home.Service{ID: "c", Name: "Lamp"}

	isLamp := func(s home.Service) bool { return s.Name == "Lamp" }

	got := narrow([]home.Service{b}, isLamp)
	assert.Equal(t, Services, got.Kind)

	got = narrow([]home.Service{a, b}, isLamp)
	assert.Equal(t, Services, got.Kind)
	assert.Equal(t, []string{"a"}, got.IDs())

	got = narrow([]home.Service{a, b, c}, isLamp)
	assert.Equal(t, Ambiguous, got.Kind)
	assert.Equal(t, []string{"a", "b", "c"}, got.IDs(), "ambiguity reports every candidate")
}

func TestFindByName(t *testing.T) {
	scenes := []home.Scene{{ID: "1", Name: "Movie"}, {ID: "2", Name: "Movie Night"}, {ID: "3", Name: "Morning"}}

	got, ok := findByName(scenes, sceneName, "MOVIE")
	assert.True(t, ok)
	assert.Equal(t, "1", got.ID)

	got, ok = findByName(scenes, sceneName, "night")
	assert.True(t, ok)
	assert.Equal(t, "2", got.ID)

	_, ok = findByName(scenes, sceneName, "mo")
	assert.False(t, ok)
}

func TestResult_Helpers(t *testing.T) {
	r := Result{Kind: Scene, Scene: home.Scene{ID: "s", Name: "Goodnight"}}
	assert.True(t, r.Found())
	assert.Equal(t, []string{"s"}, r.IDs())
	assert.Equal(t, "scene[Goodnight]", r.String())

	nf := notFound("x")
	assert.False(t, nf.Found())
	assert.Nil(t, nf.IDs())
	assert.True(t, nf.Equal(notFound("x")))
	assert.False(t, nf.Equal(notFound("y")))
	assert.False(t, nf.Equal(r))

	assert.Equal(t, "ambiguous", Ambiguous.String())
	assert.Equal(t, "not_found", NotFound.String())
}
