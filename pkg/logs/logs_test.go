package logs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerPrefix(t *testing.T) {
	logger := NewLogger("Decoder")
	var out bytes.Buffer
	logger.SetOutput(&out)
	logger.Info("frame read")
	assert.Contains(t, out.String(), "[Decoder] frame read")
}

func TestConfigureLevel(t *testing.T) {
	logger := NewLogger("x")
	require.NoError(t, Configure(logger, "", "x", "debug"))
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	assert.Error(t, Configure(logger, "", "x", "loud"))
}

func TestConfigureFolder(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger("Transport")
	require.NoError(t, Configure(logger, dir, "transport", "info"))
	logger.Info("listening")

	data, err := os.ReadFile(filepath.Join(dir, "transport.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[Transport] listening")
}
