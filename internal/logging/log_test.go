package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup("info", "text", &buf))
	t.Cleanup(func() { _ = Setup(DefaultLevel, "text", os.Stderr) })

	For("test").Debug("hidden")
	For("test").Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "component=test")
}

func TestSetupRejectsBadInput(t *testing.T) {
	assert.Error(t, Setup("loud", "text", nil))
	assert.Error(t, Setup("info", "xml", nil))
}

func TestRequestIDInJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup("debug", "json", &buf))
	t.Cleanup(func() { _ = Setup(DefaultLevel, "text", os.Stderr) })

	ctx, id := WithRequestID(context.Background())
	assert.Equal(t, id, RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))

	FromContext(ctx, "daemon").Info("request")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, id, line["request_id"])
	assert.Equal(t, "daemon", line["component"])
	assert.Equal(t, "request", line["msg"])
}
