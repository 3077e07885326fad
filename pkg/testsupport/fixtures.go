package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// FixturePath returns the path of a fixture file under the package's
// testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// LoadFixture reads a fixture file and fails the test if it is missing.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	return data
}

// LoadFixtureJSON reads a JSON fixture file and unmarshals it into dest.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	if err := json.Unmarshal(LoadFixture(t, path), dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}
