package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("loud").GetLevel())
}

func TestNew_FieldMap(t *testing.T) {
	log := New("info")
	var buf bytes.Buffer
	log.Out = &buf

	log.WithField("user", "u1").Info("registered")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "registered", entry["message"])
	assert.Equal(t, "info", entry["severity"])
	assert.Equal(t, "u1", entry["user"])
	assert.Contains(t, entry, "timestamp")
}
