package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("valid level", func(t *testing.T) {
		log, err := New("debug")
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		log, err := New("loud")
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	})
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core))

	sqlFn := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("error is logged", func(t *testing.T) {
		gl.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))
		entries := logs.FilterMessage("sql error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		before := logs.FilterMessage("sql error").Len()
		gl.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)
		assert.Equal(t, before, logs.FilterMessage("sql error").Len())
	})

	t.Run("slow query is a warning", func(t *testing.T) {
		gl.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)
		assert.Equal(t, 1, logs.FilterMessage("slow sql").Len())
	})

	t.Run("silent mode logs nothing", func(t *testing.T) {
		silent := gl.LogMode(gormlogger.Silent)
		before := logs.Len()
		silent.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))
		assert.Equal(t, before, logs.Len())
	})
}
