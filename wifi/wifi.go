// Package wifi encodes Wi-Fi network credentials into the join string
// understood by phone camera apps (the de-facto zxing WIFI: format).
package wifi

import (
	"fmt"
	"strings"
)

// Security identifies the authentication scheme of a network.
type Security string

const (
	SecurityWPA  Security = "WPA"
	SecurityWEP  Security = "WEP"
	SecurityNone Security = "nopass"
)

// ParseSecurity maps user input (case-insensitive, with common aliases)
// to a Security value.
func ParseSecurity(s string) (Security, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wpa", "wpa2", "wpa3", "":
		return SecurityWPA, nil
	case "wep":
		return SecurityWEP, nil
	case "nopass", "none", "open":
		return SecurityNone, nil
	}
	return "", fmt.Errorf("unknown security type %q (want wpa, wep or nopass)", s)
}

// Network holds the credentials for a single Wi-Fi network.
type Network struct {
	SSID     string
	Password string
	Security Security
	Hidden   bool
}

// Validate checks the credentials against the constraints of the join
// format and the respective security scheme.
func (n Network) Validate() error {
	if n.SSID == "" {
		return fmt.Errorf("SSID must not be empty")
	}
	if len(n.SSID) > 32 {
		return fmt.Errorf("SSID %q exceeds 32 bytes", n.SSID)
	}

	switch n.Security {
	case SecurityWPA:
		if l := len(n.Password); l < 8 || l > 63 {
			return fmt.Errorf("WPA passphrase must be 8-63 characters, got %d", l)
		}
	case SecurityWEP:
		switch len(n.Password) {
		case 5, 10, 13, 16, 26, 29, 32:
			// ASCII or hex key lengths for 64/128/152-bit WEP.
		default:
			return fmt.Errorf("invalid WEP key length %d", len(n.Password))
		}
	case SecurityNone:
		if n.Password != "" {
			return fmt.Errorf("open network must not have a password")
		}
	default:
		return fmt.Errorf("unknown security type %q", n.Security)
	}
	return nil
}

// Payload renders the WIFI: join string, e.g.
//
//	WIFI:T:WPA;S:guestnet;P:s3cret123;;
//
// Special characters in SSID and password are backslash-escaped. The P
// segment is omitted for open networks and the H segment when the
// network is not hidden.
func (n Network) Payload() string {
	var b strings.Builder
	b.WriteString("WIFI:T:")
	b.WriteString(string(n.Security))
	b.WriteString(";S:")
	b.WriteString(escape(n.SSID))
	b.WriteString(";")
	if n.Security != SecurityNone {
		b.WriteString("P:")
		b.WriteString(escape(n.Password))
		b.WriteString(";")
	}
	if n.Hidden {
		b.WriteString("H:true;")
	}
	b.WriteString(";")
	return b.String()
}

// escape backslash-escapes the characters reserved by the WIFI: format.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', ';', ',', ':', '"':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
