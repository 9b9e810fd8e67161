package messages

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Closest stop: %s.", m.ClosestStop)
	assert.Equal(t, "Send letter for:", m.OtherCloseStops)
	assert.Equal(t, "%s) %s", m.Option)
	assert.Equal(t, "*scheduled", m.ScheduledNote)
	assert.Contains(t, m.GenericFail, "woodward and warren")
	assert.NotPanics(t, func() { Default() })
}

func TestLoad_Override(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "configs", "messages.yml"))
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "greeting:") {
			lines[i] = `greeting: "Hola!"`
		}
	}
	custom := []byte(strings.Join(lines, "\n"))
	path := filepath.Join(t.TempDir(), "messages.yml")
	require.NoError(t, os.WriteFile(path, custom, 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Hola!", m.Greeting)
}

func TestParse_MissingTemplate(t *testing.T) {
	_, err := Parse([]byte("greeting: \"Hi\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GenericFail")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
