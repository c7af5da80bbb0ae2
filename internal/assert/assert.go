package assert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Assert is a wrapper around assert.Assertions and testing.T
type Assert struct {
	*assert.Assertions
	T *testing.T
}

// New creates a new Assert object
func New(t *testing.T) *Assert {
	return &Assert{
		Assertions: assert.New(t),
		T:          t,
	}
}

// EqualToTextFixture compares text with fixtures/<TestName>_<fixtureName>.txt.
// With GEN_FIXTURE=true the fixture is (re)written instead.
func (a *Assert) EqualToTextFixture(fixtureName string, text string) {
	a.T.Helper()
	a.equalToFixture(fixtureName+".txt", text)
}

// EqualToJSONFixture marshals result and compares it with
// fixtures/<TestName>_<fixtureName>.json.
func (a *Assert) EqualToJSONFixture(fixtureName string, result any) {
	a.T.Helper()
	resultJSON, err := json.MarshalIndent(result, "", "  ")
	a.NoError(err, "Failed to marshal result to JSON")
	a.equalToFixture(fixtureName+".json", string(resultJSON))
}

func (a *Assert) equalToFixture(fileName string, actual string) {
	a.T.Helper()

	testName := strings.ReplaceAll(a.T.Name(), "/", "_")
	fixturePath := filepath.Join("fixtures", fmt.Sprintf("%s_%s", testName, fileName))

	if os.Getenv("GEN_FIXTURE") == "true" {
		a.NoError(os.MkdirAll(filepath.Dir(fixturePath), 0755), "Failed to create fixture directory")
		a.NoError(os.WriteFile(fixturePath, []byte(actual), 0644), "Failed to write fixture file")
		return
	}

	expected, err := os.ReadFile(fixturePath)
	if !a.NoError(err, "Failed to read fixture file (run with GEN_FIXTURE=true to create it)") {
		return
	}
	a.Equal(string(expected), actual, "Result does not match fixture %s", fixturePath)
}
