package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelware/wificard/qr"
	"github.com/hostelware/wificard/wifi"
)

func init() {
	// Keep wizard output assertable.
	color.NoColor = true
}

func runWizard(t *testing.T, input string) (*Answers, string, error) {
	t.Helper()
	var out bytes.Buffer
	a, err := NewWizard(strings.NewReader(input), &out).Run()
	return a, out.String(), err
}

func TestWizardDefaults(t *testing.T) {
	// Defaults everywhere: WPA, not hidden, classic style.
	a, out, err := runWizard(t, "guestnet\n\ns3cret123\n\n\n")
	require.NoError(t, err)

	assert.Equal(t, wifi.Network{
		SSID:     "guestnet",
		Password: "s3cret123",
		Security: wifi.SecurityWPA,
	}, a.Network)
	assert.Equal(t, qr.StyleClassic, a.Style)
	assert.Contains(t, out, "Wi-Fi card wizard")
}

func TestWizardOpenNetworkSkipsPassword(t *testing.T) {
	// Security choice 3 (open); no password question should follow.
	a, out, err := runWizard(t, "lobby\n3\n\n\n")
	require.NoError(t, err)

	assert.Equal(t, wifi.SecurityNone, a.Network.Security)
	assert.Empty(t, a.Network.Password)
	assert.NotContains(t, out, "Password:")
}

func TestWizardHiddenArtistic(t *testing.T) {
	a, _, err := runWizard(t, "backoffice\n1\ns3cret123\ny\n2\n")
	require.NoError(t, err)

	assert.True(t, a.Network.Hidden)
	assert.Equal(t, qr.StyleArtistic, a.Style)
}

func TestWizardRepromptsOnBadAnswers(t *testing.T) {
	// Empty SSID, short WPA password, and a bogus menu choice each get
	// re-asked until a valid answer arrives.
	input := "\nguestnet\n9\n1\nshort\ns3cret123\nmaybe\nn\n1\n"
	a, out, err := runWizard(t, input)
	require.NoError(t, err)

	assert.Equal(t, "guestnet", a.Network.SSID)
	assert.Equal(t, "s3cret123", a.Network.Password)
	assert.Contains(t, out, "pick 1, 2 or 3")
	assert.Contains(t, out, "answer y or n")
}

func TestWizardEOF(t *testing.T) {
	_, _, err := runWizard(t, "guestnet\n")
	assert.ErrorIs(t, err, io.EOF)
}
