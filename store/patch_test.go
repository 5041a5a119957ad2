package store_test

import (
	"testing"

	"github.com/0xalexb/mtx-config/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Patch(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name      string
		patch     string
		expected  map[string]any
		expectErr bool
	}

	initial := func() map[string]any {
		return map[string]any{
			"db":    map[string]any{"host": "localhost", "port": float64(5432)},
			"hosts": []any{"a", "b"},
		}
	}

	testCases := []testCase{
		{
			name:  "add replace remove",
			patch: `[{"op":"replace","path":"/db/host","value":"db.internal"},{"op":"add","path":"/hosts/-","value":"c"},{"op":"remove","path":"/db/port"}]`,
			expected: map[string]any{
				"db":    map[string]any{"host": "db.internal"},
				"hosts": []any{"a", "b", "c"},
			},
		},
		{
			name:      "failing test op leaves document untouched",
			patch:     `[{"op":"replace","path":"/db/host","value":"changed"},{"op":"test","path":"/db/port","value":1}]`,
			expected:  initial(),
			expectErr: true,
		},
		{
			name:      "malformed patch",
			patch:     `{"op":"add"}`,
			expected:  initial(),
			expectErr: true,
		},
		{
			name:      "value mismatch",
			patch:     `[{"op":"test","path":"/db/host","value":"elsewhere"}]`,
			expected:  initial(),
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			st := newStore(t, initial())

			err := st.Patch([]byte(tc.patch))
			if tc.expectErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.expected, st.All())
		})
	}
}

func TestStore_MergePatch(t *testing.T) {
	t.Parallel()

	st := newStore(t, map[string]any{
		"db":    map[string]any{"host": "localhost", "port": float64(5432)},
		"debug": true,
	})

	require.NoError(t, st.MergePatch([]byte(`{"db":{"port":null,"user":"admin"},"debug":false}`)))
	assert.Equal(t, map[string]any{
		"db":    map[string]any{"host": "localhost", "user": "admin"},
		"debug": false,
	}, st.All())

	require.ErrorIs(t, st.MergePatch([]byte(`[1,2,3]`)), store.ErrNotObject)
	assert.Equal(t, "admin", st.Get("db.user", nil))
}
