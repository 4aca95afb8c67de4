package apiv1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWsQuery(t *testing.T) {
	t.Run(`json and plain text check`, func(t *testing.T) {
		require.Equal(t, "how many employees", wsQuery([]byte(`{"query":" how many employees "}`)))
		require.Equal(t, "list open jobs", wsQuery([]byte("  list open jobs\n")))
		require.Equal(t, "", wsQuery([]byte(`{"query":""}`)))
	})
}
