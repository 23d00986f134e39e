package logger

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForCarriesFields(t *testing.T) {
	ctx := NewContextWithFields(context.Background(), logrus.Fields{"note_id": "n1"})
	ctx = NewContextWithFields(ctx, logrus.Fields{"actor_id": "7"})

	entry := For(ctx)
	assert.Equal(t, "n1", entry.Data["note_id"])
	assert.Equal(t, "7", entry.Data["actor_id"])
}

func TestForWithoutFields(t *testing.T) {
	assert.Empty(t, For(context.Background()).Data)
}

func TestSetLevel(t *testing.T) {
	prev := defaultLogger.GetLevel()
	t.Cleanup(func() { defaultLogger.SetLevel(prev) })

	require.NoError(t, SetLevel("DEBUG"))
	assert.Equal(t, logrus.DebugLevel, defaultLogger.GetLevel())

	require.NoError(t, SetLevel(""))
	assert.Equal(t, logrus.DebugLevel, defaultLogger.GetLevel())

	assert.Error(t, SetLevel("loud"))
}
