package parse

import "github.com/netherd-io/netherd/pkg/platform"

// Last-resort extraction for platforms with no template coverage.
// Only the devices and interfaces intents are worth guessing at: a
// hostname/version pair and an interface/status list survive almost
// any vendor's formatting, while switchport or neighbor tables do not.

var fallbackDevices = docTemplate("fallback_devices",
	`^(?P<hostname>[\w.-]+) uptime is (?P<uptime>.+?)\s*$`,
	`^\s*Device name:\s+(?P<hostname>\S+)`,
	`^Hostname:\s+(?P<hostname>\S+)`,
	`[Vv]ersion (?P<version>\d[\w.()]*)`,
	`[Ss]erial [Nn]umber\s*:?\s+(?P<serial>[A-Za-z0-9]+)`,
)

var fallbackInterfaces = lineTemplate("fallback_interfaces",
	`^(?P<name>[A-Za-z][\w./-]*\d(?:\.\d+)?) is (?P<status>administratively down|up|down|UP|DOWN)\b`,
)

// fallbackFor returns the fallback template for an intent, or nil when
// the intent has none.
func fallbackFor(intent platform.Intent) *Template {
	switch intent {
	case platform.IntentDevices:
		return fallbackDevices
	case platform.IntentInterfaces:
		return fallbackInterfaces
	}
	return nil
}
