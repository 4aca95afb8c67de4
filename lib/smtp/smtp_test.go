package smtp

import (
	"bytes"
	"context"
	"testing"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestClient(send sendFunc) impl {
	return impl{user: "hr@corp.com", password: "secret", host: "smtp.corp.com", port: "465", tlsEnabled: true, send: send}
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run(`message is built and sent check`, func(t *testing.T) {
		var gotTo []string
		var gotMsg string
		client := newTestClient(func(addr string, tlsEnabled bool, _ sasl.Client, from string, to []string, msg *bytes.Buffer) error {
			require.Equal(t, "smtp.corp.com:465", addr)
			require.True(t, tlsEnabled)
			require.Equal(t, "hr@corp.com", from)
			gotTo = to
			gotMsg = msg.String()
			return nil
		})
		require.NoError(t, client.Send(ctx, "ann@corp.com", "Welcome", "Hello Ann"))
		require.Equal(t, []string{"ann@corp.com"}, gotTo)
		require.Contains(t, gotMsg, "Subject: Welcome")
		require.Contains(t, gotMsg, "Hello Ann")
	})

	t.Run(`auth failure is classified check`, func(t *testing.T) {
		client := newTestClient(func(string, bool, sasl.Client, string, []string, *bytes.Buffer) error {
			return &smtp.SMTPError{Code: 535, Message: "bad credentials"}
		})
		err := client.Send(ctx, "ann@corp.com", "s", "b")
		require.Equal(t, ErrorAuthFailed, KindOf(err))
	})

	t.Run(`transport failure check`, func(t *testing.T) {
		client := newTestClient(func(string, bool, sasl.Client, string, []string, *bytes.Buffer) error {
			return errors.New("connection refused")
		})
		require.Equal(t, ErrorTransport, KindOf(client.Send(ctx, "ann@corp.com", "s", "b")))
	})

	t.Run(`invalid recipient and missing config check`, func(t *testing.T) {
		client := newTestClient(nil)
		require.Equal(t, ErrorInvalidRecipient, KindOf(client.Send(ctx, "ann", "s", "b")))
		require.Equal(t, ErrorNotConfigured, KindOf(impl{}.Send(ctx, "ann@corp.com", "s", "b")))
	})
}
