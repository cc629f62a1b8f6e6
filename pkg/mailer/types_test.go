package mailer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimpleTags(t *testing.T) {
	t.Parallel()

	tags := SimpleTags("contact-form", "bulk")

	require.Len(t, tags, 2)
	require.Equal(t, struct{}{}, tags["contact-form"])
	require.Equal(t, struct{}{}, tags["bulk"])
	require.Empty(t, SimpleTags())
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Laguntza <info@laguntza.eus>", Recipient("Laguntza", "info@laguntza.eus"))
	require.Equal(t, "info@laguntza.eus", Recipient("", "info@laguntza.eus"))
}

func TestConfig_From(t *testing.T) {
	t.Parallel()

	require.Equal(t, "web@x.com", Config{FromEmail: "web@x.com"}.From())
	require.Equal(t, "Web <web@x.com>", Config{FromEmail: "web@x.com", FromName: "Web"}.From())
}

func TestAddresses_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    Addresses
		wantErr bool
	}{
		{name: "single string", in: `"a@x.com"`, want: Addresses{"a@x.com"}},
		{name: "array", in: `["a@x.com","b@x.com"]`, want: Addresses{"a@x.com", "b@x.com"}},
		{name: "empty string", in: `""`, want: nil},
		{name: "number", in: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got Addresses
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
