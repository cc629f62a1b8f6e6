package resend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laguntza/contactmail/pkg/mailer"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	s, err := New(Config{APIKey: "  "})
	require.ErrorIs(t, err, mailer.ErrProviderNotConfigured)
	require.Nil(t, s)
}

func TestSender_Verify(t *testing.T) {
	t.Parallel()

	s, err := New(Config{APIKey: "re_test"})
	require.NoError(t, err)
	require.NoError(t, s.Verify(context.Background()))

	var nilSender *Sender
	require.ErrorIs(t, nilSender.Verify(context.Background()), mailer.ErrProviderNotConfigured)
}

func TestConvertAttachments(t *testing.T) {
	t.Parallel()

	out := convertAttachments([]mailer.Attachment{
		{Filename: "informe.pdf", ContentType: "application/pdf", Content: []byte("%PDF")},
	})

	require.Len(t, out, 1)
	require.Equal(t, "informe.pdf", out[0].Filename)
	require.Equal(t, "application/pdf", out[0].ContentType)
	require.Equal(t, []byte("%PDF"), out[0].Content)
}

func TestTagValue(t *testing.T) {
	t.Parallel()

	require.Equal(t, "true", tagValue(struct{}{}))
	require.Equal(t, "true", tagValue(nil))
	require.Equal(t, "contact", tagValue("contact"))
	require.Equal(t, "false", tagValue(false))
	require.Equal(t, "42", tagValue(42))
	require.Equal(t, "1.5", tagValue(1.5))
}
