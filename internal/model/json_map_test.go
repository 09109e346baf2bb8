package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMapRoundTrip(t *testing.T) {
	m := JSONMap{"study_reminders": true, "idle_threshold": float64(30)}

	v, err := m.Value()
	require.NoError(t, err)

	var out JSONMap
	require.NoError(t, out.Scan(v))

	assert.Equal(t, m, out)
}

func TestJSONMapScanNil(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan(nil))
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestJSONMapNilValue(t *testing.T) {
	var m JSONMap

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestMergeKeepsSiblings(t *testing.T) {
	base := DefaultNotificationSettings()

	merged := base.Merge(map[string]any{"study_reminders": false})

	assert.Equal(t, false, merged["study_reminders"])
	assert.Equal(t, true, merged["email_notifications"])
	assert.Len(t, merged, len(base))

	// The receiver is untouched
	assert.Equal(t, true, base["study_reminders"])
}

func TestMergeAddsNewKeys(t *testing.T) {
	merged := JSONMap{"a": 1}.Merge(map[string]any{"b": 2})

	assert.Equal(t, 1, merged["a"])
	assert.Equal(t, 2, merged["b"])
}
