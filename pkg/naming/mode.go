package naming

import (
	"fmt"
	"strings"
)

// Mode is the ingress routing mode of an application instance.
// The zero value is invalid.
type Mode int

const (
	// ModeBridged routes through TSB-native IngressGateway and ServiceRoute objects.
	ModeBridged Mode = iota + 1
	// ModeDirect routes through Istio-native Gateway, VirtualService and DestinationRule objects.
	ModeDirect
)

// Modes lists the valid modes in their canonical order (bridged first).
func Modes() []Mode {
	return []Mode{ModeBridged, ModeDirect}
}

// ParseMode converts a config string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bridged":
		return ModeBridged, nil
	case "direct":
		return ModeDirect, nil
	default:
		return 0, fmt.Errorf("invalid mode %q: must be one of %v", s, SupportedModes())
	}
}

// SupportedModes returns the accepted config spellings.
func SupportedModes() []string {
	modes := Modes()
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = m.String()
	}
	return out
}

// String returns the config spelling.
func (m Mode) String() string {
	switch m {
	case ModeBridged:
		return "bridged"
	case ModeDirect:
		return "direct"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Token is the single-letter abbreviation used inside derived names.
func (m Mode) Token() string {
	switch m {
	case ModeBridged:
		return "b"
	case ModeDirect:
		return "d"
	default:
		return "x"
	}
}

// Label is the upper-case form TSB group specs expect in configMode.
func (m Mode) Label() string {
	return strings.ToUpper(m.String())
}

// IsValid reports whether m is one of the declared modes.
func (m Mode) IsValid() bool {
	return m == ModeBridged || m == ModeDirect
}

// UnmarshalText lets Mode be decoded directly from YAML scalars.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalText returns the config spelling.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("cannot marshal invalid mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// App identifies the demo application an instance runs.
type App string

const (
	AppBookinfo App = "bookinfo"
	AppHttpbin  App = "httpbin"
)

// Token is the four-letter abbreviation used inside derived names.
func (a App) Token() string {
	switch a {
	case AppBookinfo:
		return "bkif"
	case AppHttpbin:
		return "htbn"
	default:
		return "unkn"
	}
}

func (a App) String() string { return string(a) }
