package fallback

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestTry(t *testing.T) {
	t.Run(`success check`, func(t *testing.T) {
		v := Try("step", 1, func() (int, error) { return 5, nil })
		require.False(t, v.Degraded)
		require.Equal(t, 5, v.Value)
	})

	t.Run(`default on failure check`, func(t *testing.T) {
		v := Try("step", 1, func() (int, error) { return 5, errors.New("down") })
		require.True(t, v.Degraded)
		require.Equal(t, 1, v.Value)
		require.EqualError(t, v.Cause, "down")
	})
}

func TestRecover(t *testing.T) {
	t.Run(`panic converted check`, func(t *testing.T) {
		result := "unset"
		func() {
			defer Recover("test", func() { result = "recovered" })
			panic("boom")
		}()
		require.Equal(t, "recovered", result)
	})
}
