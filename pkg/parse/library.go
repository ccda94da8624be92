package parse

// Shared template library, keyed family_show_command. Each entry
// distills one CLI table or block layout; platforms in the same family
// share entries. Capture names are the row vocabulary the normalizers
// consume: name/status/mac for interfaces, vlan/mac/interface for MAC
// tables, local_interface/remote_* for neighbors, and so on.

var library = map[string]*Template{}

func register(t *Template) {
	if _, dup := library[t.key]; dup {
		panic("parse: duplicate library template " + t.key)
	}
	library[t.key] = t
}

// registerAs registers one compiled template under additional keys for
// families whose output shape is identical.
func registerAs(t *Template, keys ...string) {
	register(t)
	for _, k := range keys {
		clone := *t
		clone.key = k
		register(&clone)
	}
}

// LibraryKeys reports every registered shared template key.
func LibraryKeys() []string {
	keys := make([]string, 0, len(library))
	for k := range library {
		keys = append(keys, k)
	}
	return keys
}

func init() {
	registerIOS()
	registerNXOS()
	registerEOS()
	registerJunos()
}

func registerIOS() {
	register(docTemplate("cisco_ios_show_version",
		`^Cisco IOS.*Software.*,.*Version (?P<version>[^,\s\[]+)`,
		`^(?P<hostname>[\w.-]+) uptime is (?P<uptime>.+?)\s*$`,
		`^[Cc]isco (?P<model>\S+) \(.*\) processor`,
		`^Processor board ID (?P<serial>\S+)`,
		`^System [Ss]erial [Nn]umber\s*:\s*(?P<serial>\S+)`,
	))

	registerAs(blockTemplate("cisco_ios_show_interfaces", blockSpec{
		start: `^(?P<name>[A-Za-z]\S*) is (?P<status>administratively down|up|down)(?:, line protocol is (?P<protocol>\w+))?`,
		fields: []string{
			`^\s+Hardware is (?P<hardware_type>[^,]+?)(?:, address is (?P<mac>[0-9a-fA-F.]+))?\s*(?:\(|$)`,
			`^\s+Description: (?P<description>.+?)\s*$`,
			`^\s+Internet address is (?P<ip>[\d./]+)`,
			`^\s+MTU (?P<mtu>\d+) bytes, BW (?P<bandwidth>\d+) [Kk]bit`,
			`^\s+(?P<duplex>\S+)-[Dd]uplex, (?P<speed>\S+?)(?:,\s*media type is (?P<media_type>.+?))?\s*$`,
		},
	}), "arista_eos_show_interfaces")

	switchport := blockSpec{
		start: `^Name:\s+(?P<interface>\S+)\s*$`,
		fields: []string{
			`^Switchport:\s+(?P<switchport>\S+)`,
			`^Administrative Mode:\s+(?P<admin_mode>.+?)\s*$`,
			`^Operational Mode:\s+(?P<oper_mode>.+?)\s*$`,
			`^Access Mode VLAN:\s+(?P<access_vlan>\d+)`,
			`^Trunking Native Mode VLAN:\s+(?P<native_vlan>\d+)`,
			`^Voice VLAN:\s+(?P<voice_vlan>\d+)`,
			`^Trunking VLANs Enabled:\s+(?P<trunking_vlans>\S+)\s*$`,
		},
		appends: []string{
			`^\s+(?P<trunking_vlans>[0-9,\-]+)\s*$`,
		},
	}
	registerAs(blockTemplate("cisco_ios_show_interfaces_switchport", switchport),
		"arista_eos_show_interfaces_switchport")

	// Group / bundle(flags) / [type] / protocol / member list. The
	// optional Eth column absorbs the NX-OS Type field so one pattern
	// covers IOS, NX-OS and EOS summaries. Wrapped member lists ride
	// in on the append pattern.
	portchannel := blockSpec{
		start: `^\s*(?P<group>\d+)\s+(?P<bundle>Po\d+)\((?P<flags>[A-Za-z+]+)\)\s+(?:Eth\s+)?(?P<protocol>\S+)\s+(?P<members>.*?)\s*$`,
		appends: []string{
			`^\s{6,}(?P<members> ?(?:\S+\(\w+\)\s*)+?)\s*$`,
		},
		skip: []string{
			`^\s*Flags:`, `^\s+\S+ [-=] `, `^\s*Group\s+Port-`, `^\s+Channel\s*$`, `^[\s+-]+$`,
			`^Number of `, `^\s*Port-Channel\s`,
		},
	}
	registerAs(blockTemplate("cisco_ios_show_etherchannel_summary", portchannel),
		"cisco_nxos_show_port_channel_summary",
		"arista_eos_show_port_channel_summary")

	// IOS-XR bundles: one block per Bundle-Ether, one row per member.
	register(blockTemplate("cisco_ios_show_bundle", blockSpec{
		start: `^(?P<bundle>Bundle-Ether\d+)\s*$`,
		child: `^\s+(?P<member>(?:Gi|Te|TF|TH|Fo|Hu)\S*\d)\s+Local\s+(?P<state>\S+)`,
	}))

	status := lineTemplate("cisco_ios_show_interfaces_status",
		`^(?P<interface>\S+)\s+(?P<description>.*?)\s+(?P<status>connected|notconnect|disabled|err-disabled|errdisabled|inactive|suspended|sfpAbsent|notpresent)\s+(?P<vlan>\S+)\s+(?P<duplex>\S+)\s+(?P<speed>\S+)(?:\s+(?P<media_type>\S.*?))?\s*$`,
		`^Port\s+Name`, `^-{5,}`)
	registerAs(status, "arista_eos_show_interfaces_status")

	register(lineTemplate("cisco_ios_show_mac_address_table",
		`^[*+]?\s*(?P<vlan>\d+|All)\s+(?P<mac>[0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4})\s+(?P<type>\S+)\s+(?P<interface>[A-Za-z]\S*)\s*$`,
		`^\s*Mac Address Table`, `^-{5,}`, `^Vlan\s+Mac Address`, `^----`,
		`^Total Mac Addresses`))

	lldp := blockSpec{
		start: `^Local Intf: (?P<local_interface>\S+)\s*$`,
		fields: []string{
			`^Chassis id: (?P<chassis_id>\S+)`,
			`^Port id: (?P<remote_interface>.+?)\s*$`,
			`^Port Description: (?P<remote_port_desc>.+?)\s*$`,
			`^System Name: (?P<remote_name>.+?)\s*$`,
			`^System Description:\s+(?P<remote_platform>\S.*?)\s*$`,
			`^\s+IP: (?P<remote_mgmt_ip>[\d.]+)`,
			`^Enabled Capabilities: (?P<capabilities>.+?)\s*$`,
		},
	}
	register(blockTemplate("cisco_ios_show_lldp_neighbors_detail", lldp))

	cdp := blockSpec{
		start: `^Device ID:\s*(?P<remote_name>\S+)\s*$`,
		fields: []string{
			`^\s+IP(?:v4)? [Aa]ddress: (?P<remote_mgmt_ip>[\d.]+)`,
			`^Platform:\s*(?P<remote_platform>[^,]+?),\s*Capabilities:\s*(?P<capabilities>.+?)\s*$`,
			`^Interface: (?P<local_interface>[^,]+?),\s*Port ID \(outgoing port\): (?P<remote_interface>.+?)\s*$`,
		},
	}
	registerAs(blockTemplate("cisco_ios_show_cdp_neighbors_detail", cdp),
		"cisco_nxos_show_cdp_neighbors_detail")

	inventory := blockSpec{
		start: `^NAME: "(?P<slot>[^"]+)",\s*DESCR: "(?P<description>[^"]*)"`,
		fields: []string{
			`^PID: (?P<part_id>\S*?)\s*,\s*VID: (?P<vid>[^,]*?)\s*,\s*SN: (?P<serial>\S*)\s*$`,
		},
	}
	registerAs(blockTemplate("cisco_ios_show_inventory", inventory),
		"cisco_nxos_show_inventory",
		"arista_eos_show_inventory")
}

func registerNXOS() {
	register(docTemplate("cisco_nxos_show_version",
		`^\s+(?:NXOS|system):\s+version (?P<version>\S+)`,
		`^\s+cisco (?P<model>Nexus\S*(?: \S+)?) [Cc]hassis`,
		`^\s+Device name:\s+(?P<hostname>\S+)`,
		`^\s+Processor Board ID (?P<serial>\S+)`,
		`^\s*Kernel uptime is (?P<uptime>.+?)\s*$`,
	))

	register(blockTemplate("cisco_nxos_show_interface", blockSpec{
		start: `^(?P<name>[A-Za-z]\S*) is (?P<status>administratively down|up|down)(?:\s*\((?P<status_reason>[^)]+)\))?(?:, line protocol is (?P<protocol>\w+).*)?$`,
		fields: []string{
			`^\s*admin state is (?P<admin_state>\S+?)(?:,.*)?$`,
			`^\s+Hardware(?: is|:)\s+(?P<hardware_type>[^,]+), address(?: is|:)\s+(?P<mac>[0-9a-fA-F.]+)`,
			`^\s+Description: (?P<description>.+?)\s*$`,
			`^\s+Internet Address is (?P<ip>[\d./]+)`,
			`^\s+MTU (?P<mtu>\d+) bytes, BW (?P<bandwidth>\d+) Kbit`,
		},
	}))

	register(blockTemplate("cisco_nxos_show_interface_switchport", blockSpec{
		start: `^Name:\s+(?P<interface>\S+)\s*$`,
		fields: []string{
			`^\s+Switchport:\s+(?P<switchport>\S+)`,
			`^\s+Operational Mode:\s+(?P<mode>.+?)\s*$`,
			`^\s+Access Mode VLAN:\s+(?P<access_vlan>\d+)`,
			`^\s+Trunking Native Mode VLAN:\s+(?P<native_vlan>\d+)`,
			`^\s+Trunking VLANs Allowed:\s+(?P<trunking_vlans>\S+)\s*$`,
		},
		// NX-OS wraps long trunk VLAN lists mid-token; concatenation
		// repairs "…,4001-409" + "4" into "…,4001-4094".
		appends: []string{
			`^\s*(?P<trunking_vlans>[0-9,\-]+)\s*$`,
		},
	}))

	register(blockTemplate("cisco_nxos_show_interface_transceiver", blockSpec{
		start: `^(?P<interface>Ethernet\S+|mgmt\d+)\s*$`,
		fields: []string{
			`^\s+type is (?P<media_type>.+?)\s*$`,
			`^\s+name is (?P<manufacturer>.+?)\s*$`,
			`^\s+part number is (?P<part_id>\S+)`,
			`^\s+serial number is (?P<serial>\S+)`,
		},
	}))

	register(lineTemplate("cisco_nxos_show_mac_address_table",
		`^[*+GO]?\s*(?P<vlan>\d+|-)\s+(?P<mac>[0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4})\s+(?P<type>\S+)\s+\S+\s+\S+\s+\S+\s+(?P<interface>\S+)\s*$`,
		`^Legend:`, `^\s+\* - primary`, `^\s+age -`, `^\s+VLAN\s+MAC`, `^-{5,}`,
		`^VLAN\s+MAC`, `^Note:`))

	register(blockTemplate("cisco_nxos_show_lldp_neighbors_detail", blockSpec{
		start: `^Chassis id:\s+(?P<chassis_id>\S+)`,
		fields: []string{
			`^Local Port id: (?P<local_interface>\S+)`,
			`^Port id: (?P<remote_interface>\S+)`,
			`^Port Description: (?P<remote_port_desc>.+?)\s*$`,
			`^System Name: (?P<remote_name>.+?)\s*$`,
			`^System Description: (?P<remote_platform>.+?)\s*$`,
			`^Management Address: (?P<remote_mgmt_ip>[\d.]+)`,
		},
	}))
}

func registerEOS() {
	register(docTemplate("arista_eos_show_version",
		`^\s*Arista (?P<model>\S+)`,
		`^Serial number:\s+(?P<serial>\S+)`,
		`^Software image version:\s+(?P<version>\S+)`,
		`^Uptime:\s+(?P<uptime>.+?)\s*$`,
	))

	register(blockTemplate("arista_eos_show_lldp_neighbors_detail", blockSpec{
		start: `^Interface (?P<local_interface>\S+) detected \d+ LLDP neighbors`,
		fields: []string{
			`^\s+- Chassis ID\s+:\s*(?P<chassis_id>\S+)`,
			`^\s+- Port ID\s+:\s*"?(?P<remote_interface>[^"\s]+)"?`,
			`^\s+- System Name:\s*"?(?P<remote_name>[^"]+?)"?\s*$`,
			`^\s+- System Description:\s*"?(?P<remote_platform>[^"]*?)"?\s*$`,
			`^\s+- Management Address\s+:\s*(?P<remote_mgmt_ip>[\d.]+)`,
		},
	}))

	register(lineTemplate("arista_eos_show_mac_address_table",
		`^\s*(?P<vlan>\d+)\s+(?P<mac>[0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4})\s+(?P<type>\S+)\s+(?P<interface>\S+)(?:\s+\d+\s+.*)?$`,
		`^\s*Mac Address Table`, `^-{5,}`, `^Vlan\s+Mac Address`, `^----`,
		`^Total Mac Addresses`))
}

func registerJunos() {
	register(docTemplate("juniper_junos_show_version",
		`^Hostname:\s+(?P<hostname>\S+)`,
		`^Model:\s+(?P<model>\S+)`,
		`^Junos:\s+(?P<version>\S+)`,
	))

	register(blockTemplate("juniper_junos_show_interfaces", blockSpec{
		start: `^Physical interface: (?P<name>\S+), (?P<admin_state>Enabled|Administratively down), Physical link is (?P<status>\S+)`,
		fields: []string{
			`^\s+Description: (?P<description>.+?)\s*$`,
			`^\s+Link-level type: [^,]+, MTU: (?P<mtu>\d+)(?:.*Speed: (?P<speed>[^,]+),)?`,
			`^\s+Current address: (?P<mac>[0-9a-f:]+)`,
			`^\s+Destination: (?P<destination>[\d./]+), Local: (?P<ip>[\d.]+)`,
		},
	}))

	// One row per member link; the Actor/Partner role lets the
	// normalizer halve the duplicated state table.
	register(blockTemplate("juniper_junos_show_lacp_interfaces", blockSpec{
		start: `^Aggregated interface: (?P<bundle>\S+)\s*$`,
		child: `^\s+(?P<member>[a-z]{2}-\d+/\d+/\d+(?:\.\d+)?)\s+(?P<role>Actor|Partner)`,
	}))

	register(lineTemplate("juniper_junos_show_ethernet_switching_table",
		`^\s{2,}(?P<vlan_name>\S+)\s+(?P<mac>[0-9a-f]{2}(?::[0-9a-f]{2}){5})\s+(?P<type>\S+)\s+(?:\S+\s+)?(?P<interface>[a-z]\S+)\s*$`,
		`^MAC flags`, `^Ethernet switching table`, `^Routing instance`,
		`^\s+Vlan\s+MAC`, `^\s+name\s+address`))

	register(lineTemplate("juniper_junos_show_lldp_neighbors",
		`^(?P<local_interface>[a-z]\S+)\s+(?P<parent>\S+)\s+(?P<chassis_id>[0-9a-f:.]+)\s+(?P<remote_interface>\S+)\s+(?P<remote_name>\S+)\s*$`,
		`^Local Interface`))

	// Columns are separated by runs of two or more spaces; the version,
	// part and serial columns are recognized by value shape since empty
	// columns collapse in the output.
	register(lineTemplate("juniper_junos_show_chassis_hardware",
		`^\s*(?P<slot>[A-Za-z][^\s].*?)(?:\s{2,}(?P<version>REV \d+|BUILTIN))?(?:\s{2,}(?P<part_id>\d{3}-\d{6}|BUILTIN))?(?:\s{2,}(?P<serial>[A-Z0-9]{5,}|BUILTIN))?(?:\s{2,}(?P<description>\S.*?))?\s*$`,
		`^Hardware inventory:`, `^Item\s+Version`))
}
