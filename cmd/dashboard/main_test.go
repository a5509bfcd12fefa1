package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_ErrorsGoToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")

	log, closeLog := setupLogger(envProd, path)
	log.Info("server started")
	log.With("op", "test").Error("failed to list orders")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "failed to list orders")
	assert.Contains(t, string(data), "op=test")
	assert.NotContains(t, string(data), "server started")
}

func TestSetupLogger_UnwritablePath(t *testing.T) {
	log, closeLog := setupLogger(envLocal, filepath.Join(t.TempDir(), "missing", "errors.log"))
	defer closeLog()

	assert.NotNil(t, log)
}
