package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GeonYul2/Recruitment-Auto/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Setup_CleanupClosesLogFile(t *testing.T) {

	Setup(config.LoggerConfig{
		LogLevel:   config.LevelInfo,
		OutputFile: filepath.Join(t.TempDir(), "logs", "app.log"),
	})
	t.Cleanup(func() { log.SetOutput(os.Stdout) })

	require.NotNil(t, logFile)

	Cleanup()
	assert.ErrorIs(t, logFile.Close(), os.ErrClosed)
}
