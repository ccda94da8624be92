package normalize

import (
	"net"
	"strings"

	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/parse"
)

// Facts builds the device facts record from parsed version output.
// Version output parses into a single row; extra rows are ignored.
// Missing hostname falls back to the fleet name, then the host.
func Facts(rows []parse.Row, dev model.Device, vendor string) model.DeviceFacts {
	facts := model.DeviceFacts{
		Device:   dev.Host,
		Hostname: dev.DisplayName(),
		Vendor:   vendor,
	}
	if ip := net.ParseIP(dev.Host); ip != nil {
		facts.MgmtIP = dev.Host
	}
	if len(rows) == 0 {
		return facts
	}

	row := rows[0]
	if h := strings.TrimSpace(row["hostname"]); h != "" {
		facts.Hostname = h
	}
	facts.Model = strings.TrimSpace(row["model"])
	facts.OSVersion = strings.TrimSpace(row["version"])
	facts.Serial = strings.TrimSpace(row["serial"])
	facts.Uptime = strings.TrimSpace(row["uptime"])
	if v := strings.TrimSpace(row["vendor"]); v != "" {
		facts.Vendor = v
	}
	return facts
}
