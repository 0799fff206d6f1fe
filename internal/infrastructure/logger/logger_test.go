package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextWithLoggerKeepsExistingLogger(t *testing.T) {
	ctx, rlog := ContextWithLogger(context.Background())
	require.NotNil(t, rlog)

	id := RequestIDFromContext(ctx)
	assert.NotEmpty(t, id)

	again, same := ContextWithLogger(ctx)
	assert.Equal(t, ctx, again)
	assert.Equal(t, rlog, same)
	assert.Equal(t, id, RequestIDFromContext(again))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestSetupLoggerWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	defer logrus.SetOutput(os.Stderr)

	require.NoError(t, SetupLogger("debug", dir))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	Info("hello %s", "world")

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello world")
}

func TestSetupLoggerInvalidLevel(t *testing.T) {
	require.NoError(t, SetupLogger("shouting", ""))
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
