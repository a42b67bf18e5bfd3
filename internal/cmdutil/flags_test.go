package cmdutil

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/hostctl/internal/errors"
	"github.com/opmodel/hostctl/internal/hosting"
)

func TestChannelFlags_AddTo(t *testing.T) {
	var cf ChannelFlags
	cmd := &cobra.Command{Use: "test"}
	cf.AddTo(cmd, "live")

	flag := cmd.Flags().Lookup("channel")
	require.NotNil(t, flag)
	assert.Equal(t, "live", flag.DefValue)
	assert.Equal(t, "live", cf.Channel)
}

func TestChannelFlags_Validate(t *testing.T) {
	assert.NoError(t, (&ChannelFlags{Channel: "pr-1"}).Validate())

	err := (&ChannelFlags{}).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestExpiresFlags(t *testing.T) {
	var ef ExpiresFlags
	cmd := &cobra.Command{Use: "test"}
	ef.AddTo(cmd)
	require.NotNil(t, cmd.Flags().Lookup("expires"))

	ttl, err := ef.TTL()
	require.NoError(t, err)
	assert.Equal(t, hosting.DefaultChannelTTL, ttl)

	require.NoError(t, cmd.Flags().Set("expires", "12h"))
	ttl, err = ef.TTL()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, ttl)

	require.NoError(t, cmd.Flags().Set("expires", "31d"))
	_, err = ef.TTL()
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestParseSiteChannel(t *testing.T) {
	tests := []struct {
		arg     string
		want    SiteChannel
		wantErr bool
	}{
		{arg: "my-site:live", want: SiteChannel{Site: "my-site", Channel: "live"}},
		{arg: "a:b:c", want: SiteChannel{Site: "a", Channel: "b:c"}},
		{arg: "my-site", wantErr: true},
		{arg: ":live", wantErr: true},
		{arg: "my-site:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParseSiteChannel(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, oerrors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.arg, got.String())
		})
	}
}

func TestResolveDir(t *testing.T) {
	assert.Equal(t, ".", ResolveDir(nil))
	assert.Equal(t, "./public", ResolveDir([]string{"./public"}))
}
