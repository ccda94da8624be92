package ifname

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short cisco gig", "Gi0/1", "GigabitEthernet0/1"},
		{"lowercase short", "gi0/1", "GigabitEthernet0/1"},
		{"already long", "GigabitEthernet0/1", "GigabitEthernet0/1"},
		{"hundred gig short", "Hu0/55", "HundredGigabitEthernet0/55"},
		{"hundred gig ios-xe spelling", "HundredGigE0/0/0/0", "HundredGigabitEthernet0/0/0/0"},
		{"nxos ethernet", "Eth1/1", "Ethernet1/1"},
		{"arista ethernet", "Et1", "Ethernet1"},
		{"arista port-channel", "Port-Channel10", "Port-channel10"},
		{"nxos port-channel", "port-channel10", "Port-channel10"},
		{"short po", "po10", "Port-channel10"},
		{"qtech interior space", "GigabitEthernet 0/1", "GigabitEthernet0/1"},
		{"qtech aggregate port with space", "AggregatePort 1", "AggregatePort1"},
		{"ios-xr bundle", "BE100", "Bundle-Ether100"},
		{"ios-xr bundle long", "Bundle-Ether100", "Bundle-Ether100"},
		{"juniper ge stays native", "ge-0/0/0", "ge-0/0/0"},
		{"juniper xe stays native", "xe-0/0/1", "xe-0/0/1"},
		{"juniper ae", "ae0", "ae0"},
		{"svi", "vlan100", "Vlan100"},
		{"svi short", "vl100", "Vlan100"},
		{"mgmt nxos", "mgmt0", "Management0"},
		{"mgmt ios-xr", "MgmtEth0/RP0/CPU0/0", "Management0/RP0/CPU0/0"},
		{"loopback short", "lo0", "Loopback0"},
		{"truncated abbreviation", "gig0/1", "GigabitEthernet0/1"},
		{"truncated long form", "HundredGigabitEth0/55", "HundredGigabitEthernet0/55"},
		{"ten gig ios-xr", "TenGigE0/0/0/10", "TenGigabitEthernet0/0/0/10"},
		{"twenty five gig", "Twe1/0/1", "TwentyFiveGigE1/0/1"},
		{"unknown passes through", "fxp0", "fxp0"},
		{"unknown with space stripped", "Serial 0/0", "Serial0/0"},
		{"subinterface", "Gi0/0.100", "GigabitEthernet0/0.100"},
		{"whitespace trimmed", "  Gi0/1  ", "GigabitEthernet0/1"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestShorten(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"gigabit", "GigabitEthernet0/1", "Gi0/1"},
		{"hundred gig", "HundredGigabitEthernet0/55", "Hu0/55"},
		{"port-channel", "Port-channel10", "Po10"},
		{"aggregate port", "AggregatePort1", "Ag1"},
		{"already short", "Gi0/1", "Gi0/1"},
		{"juniper stays native", "ge-0/0/0", "ge-0/0/0"},
		{"unknown passes through", "fxp0", "fxp0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shorten(tt.in); got != tt.want {
				t.Errorf("Shorten(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeShortenRoundTrip(t *testing.T) {
	names := []string{
		"GigabitEthernet0/1",
		"TenGigabitEthernet1/0/1",
		"HundredGigabitEthernet0/55",
		"Port-channel10",
		"AggregatePort1",
		"Vlan100",
		"Loopback0",
		"Ethernet1/1",
	}
	for _, name := range names {
		if got := Normalize(Shorten(name)); got != name {
			t.Errorf("Normalize(Shorten(%q)) = %q, want round trip", name, got)
		}
	}
}

func TestAliases(t *testing.T) {
	got := Aliases("Hu0/55")

	want := map[string]bool{
		"HundredGigabitEthernet0/55": true,
		"Hu0/55":                     true,
		"hundredgigabitethernet0/55": true,
		"hundredgige0/55":            true,
		"hu0/55":                     true,
	}
	for w := range want {
		found := false
		for _, a := range got {
			if a == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Aliases(\"Hu0/55\") missing %q, got %v", w, got)
		}
	}

	if got[0] != "HundredGigabitEthernet0/55" {
		t.Errorf("Aliases() first element = %q, want canonical long form", got[0])
	}

	seen := make(map[string]bool)
	for _, a := range got {
		if seen[a] {
			t.Errorf("Aliases() contains duplicate %q", a)
		}
		seen[a] = true
	}
}

func TestAliasesUnknown(t *testing.T) {
	got := Aliases("fxp0")
	if len(got) != 1 || got[0] != "fxp0" {
		t.Errorf("Aliases(\"fxp0\") = %v, want just the input", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"GigabitEthernet0/1", KindPhysical},
		{"Eth1/1", KindPhysical},
		{"ge-0/0/0", KindPhysical},
		{"Port-channel10", KindLAG},
		{"po10", KindLAG},
		{"AggregatePort1", KindLAG},
		{"Bundle-Ether100", KindLAG},
		{"ae0", KindLAG},
		{"Vlan100", KindSVI},
		{"irb.100", KindSVI},
		{"Loopback0", KindLoopback},
		{"lo0", KindLoopback},
		{"mgmt0", KindMgmt},
		{"Management1", KindMgmt},
		{"Tunnel1", KindTunnel},
		{"Null0", KindVirtual},
		{"Gi0/0.100", KindSubinterface},
		{"ge-0/0/0.0", KindSubinterface},
		{"Port-channel1.200", KindSubinterface},
		{"fxp0", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Classify(tt.in); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLAGNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"Port-channel10", 10, true},
		{"po10", 10, true},
		{"PORT-CHANNEL10", 10, true},
		{"Po1", 1, true},
		{"AggregatePort2", 2, true},
		{"ag2", 2, true},
		{"AggregatePort 2", 2, true},
		{"Bundle-Ether100", 100, true},
		{"be100", 100, true},
		{"ae0", 0, true},
		{"GigabitEthernet0/1", 0, false},
		{"Vlan100", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := LAGNumber(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("LAGNumber(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSVIVID(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"Vlan100", 100, true},
		{"vlan1", 1, true},
		{"vl200", 200, true},
		{"Vlan 300", 300, true},
		{"irb.300", 300, true},
		{"GigabitEthernet0/1", 0, false},
		{"Port-channel10", 0, false},
		{"irb.x", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := SVIVID(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("SVIVID(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
