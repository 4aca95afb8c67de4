package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type service interface{ Name() string }

type impl struct{}

func (*impl) Name() string { return "impl" }

func TestCheckInit(t *testing.T) {
	t.Run(`initialized check`, func(t *testing.T) {
		var s service = &impl{}
		require.NotPanics(t, func() { CheckInit("service", s, "count", 0) })
	})
	t.Run(`nil interface check`, func(t *testing.T) {
		var s service
		require.PanicsWithValue(t, "service dependency not initialized", func() { CheckInit("service", s) })
	})
	t.Run(`typed nil check`, func(t *testing.T) {
		var p *impl
		var s service = p
		require.PanicsWithValue(t, "service dependency not initialized", func() { CheckInit("service", s) })
	})
	t.Run(`malformed pairs check`, func(t *testing.T) {
		require.Panics(t, func() { CheckInit("service") })
		require.Panics(t, func() { CheckInit(1, 2) })
	})
}
