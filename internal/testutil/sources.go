// Package testutil provides canned CSS source sets shared by tests.
package testutil

// BasicSources returns a clean two-file batch where a.css imports b.css.
// Each call returns a fresh map so tests can mutate their copy.
func BasicSources() map[string][]byte {
	return map[string][]byte{
		"a.css": []byte(`@import "b.css"; div { color: red }`),
		"b.css": []byte("span { x: y }"),
	}
}

// MalformedSource returns CSS that raises a missing-colon diagnostic but
// still produces an artifact.
func MalformedSource() []byte {
	return []byte("div { color red }")
}

// InvalidUTF8Source returns bytes that are not valid UTF-8, for pinning
// the lossy decode path.
func InvalidUTF8Source() []byte {
	return []byte{0xff, 0xfe, 'd', 'i', 'v', ' ', '{', '}'}
}
