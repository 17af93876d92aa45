package logging_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stretchr/testify/require"
	"testing"

	"github.com/studio1767/s3mirror/internal/logging"
)

func TestSetupWritesPerDayFile(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	closer, err := logging.Setup(logDir, slog.LevelDebug)
	require.NoError(t, err)

	slog.Info("first message", "key", "value")
	slog.Warn("second message")
	require.NoError(t, closer.Close())

	name := "s3mirror-" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(logDir, name))
	require.NoError(t, err)

	content := string(data)
	require.Contains(t, content, "first message")
	require.Contains(t, content, "key=value")
	require.Contains(t, content, "second message")

	// appends on reopen rather than truncating
	closer, err = logging.Setup(logDir, slog.LevelDebug)
	require.NoError(t, err)
	slog.Info("third message")
	require.NoError(t, closer.Close())

	data, err = os.ReadFile(filepath.Join(logDir, name))
	require.NoError(t, err)
	require.Contains(t, string(data), "first message")
	require.Contains(t, string(data), "third message")
	require.Equal(t, 3, strings.Count(string(data), "msg="))
}

func TestSetupTerminalOnly(t *testing.T) {
	closer, err := logging.Setup("", slog.LevelInfo)
	require.NoError(t, err)
	require.NoError(t, closer.Close())
}
