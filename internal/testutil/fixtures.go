// Package testutil holds captured CLI output shared by parser,
// normalizer and collector tests, plus small constructors for test
// devices. Outputs are trimmed transcripts from lab gear; prompts and
// pager artifacts are already stripped, which is what the session
// layer hands to the parser.
package testutil

import "github.com/netherd-io/netherd/pkg/model"

// TestDevice builds a fleet entry for parser and collector tests.
func TestDevice(name, host, platformTag string) model.Device {
	return model.Device{
		Name:     name,
		Host:     host,
		Platform: platformTag,
		Site:     "lab1",
		Role:     "access",
		Enabled:  true,
	}
}

const IOSShowVersion = `Cisco IOS Software, C2960 Software (C2960-LANBASEK9-M), Version 15.0(2)SE11, RELEASE SOFTWARE (fc3)
Technical Support: http://www.cisco.com/techsupport
Copyright (c) 1986-2017 by Cisco Systems, Inc.
Compiled Sat 19-Aug-17 09:34 by prod_rel_team

ROM: Bootstrap program is C2960 boot loader
BOOTLDR: C2960 Boot Loader (C2960-HBOOT-M) Version 12.2(25r)FX, RELEASE SOFTWARE (fc4)

access-sw1 uptime is 2 years, 11 weeks, 4 days, 1 hour, 59 minutes
System returned to ROM by power-on
System restarted at 07:01:15 UTC Mon Mar 1 2023
System image file is "flash:c2960-lanbasek9-mz.150-2.SE11.bin"

cisco WS-C2960-24TT-L (PowerPC405) processor (revision B0) with 65536K bytes of memory.
Processor board ID FOC1049X1AB
Last reset from power-on
1 Virtual Ethernet interface
24 FastEthernet interfaces
2 Gigabit Ethernet interfaces
The password-recovery mechanism is enabled.

64K bytes of flash-simulated non-volatile configuration memory.
Base ethernet MAC Address       : 00:1B:54:AA:BB:00
Motherboard assembly number     : 73-10390-03
Motherboard serial number       : FOC104905AB
Model number                    : WS-C2960-24TT-L
System serial number            : FOC1049X1AB
Top Assembly Part Number        : 800-27221-02

Switch Ports Model              SW Version            SW Image
------ ----- -----              ----------            ----------
*    1 26    WS-C2960-24TT-L    15.0(2)SE11           C2960-LANBASEK9-M

Configuration register is 0xF
`

const IOSShowInterfaces = `Vlan1 is administratively down, line protocol is down
  Hardware is EtherSVI, address is 001b.54aa.bb40 (bia 001b.54aa.bb40)
  MTU 1500 bytes, BW 1000000 Kbit/sec, DLY 10 usec,
     reliability 255/255, txload 1/255, rxload 1/255
  Encapsulation ARPA, loopback not set
Vlan10 is up, line protocol is up
  Hardware is EtherSVI, address is 001b.54aa.bb41 (bia 001b.54aa.bb41)
  Description: users vlan
  Internet address is 10.10.0.1/24
  MTU 1500 bytes, BW 1000000 Kbit/sec, DLY 10 usec,
     reliability 255/255, txload 1/255, rxload 1/255
  Encapsulation ARPA, loopback not set
GigabitEthernet0/1 is up, line protocol is up (connected)
  Hardware is Gigabit Ethernet, address is 001b.54aa.bb01 (bia 001b.54aa.bb01)
  Description: uplink to dist1
  MTU 1500 bytes, BW 1000000 Kbit/sec, DLY 10 usec,
     reliability 255/255, txload 1/255, rxload 1/255
  Encapsulation ARPA, loopback not set
  Keepalive set (10 sec)
  Full-duplex, 1000Mb/s, media type is 10/100/1000BaseTX
  input flow-control is off, output flow-control is unsupported
  Last input 00:00:00, output 00:00:01, output hang never
GigabitEthernet0/2 is down, line protocol is down (notconnect)
  Hardware is Gigabit Ethernet, address is 001b.54aa.bb02 (bia 001b.54aa.bb02)
  MTU 1500 bytes, BW 1000000 Kbit/sec, DLY 10 usec,
     reliability 255/255, txload 1/255, rxload 1/255
  Encapsulation ARPA, loopback not set
  Auto-duplex, Auto-speed, media type is 10/100/1000BaseTX
Port-channel1 is up, line protocol is up
  Hardware is EtherChannel, address is 001b.54aa.bb01 (bia 001b.54aa.bb01)
  MTU 1500 bytes, BW 2000000 Kbit/sec, DLY 10 usec,
     reliability 255/255, txload 1/255, rxload 1/255
  Encapsulation ARPA, loopback not set
`

const IOSShowSwitchport = `Name: Gi0/1
Switchport: Enabled
Administrative Mode: trunk
Operational Mode: trunk
Administrative Trunking Encapsulation: dot1q
Operational Trunking Encapsulation: dot1q
Negotiation of Trunking: On
Access Mode VLAN: 1 (default)
Trunking Native Mode VLAN: 1 (default)
Administrative Native VLAN tagging: enabled
Voice VLAN: none (Inactive)
Trunking VLANs Enabled: 10,20,30-40,100,200,300-310,400,500,600,700,800,900,
    1000,1100
Pruning VLANs Enabled: 2-1001
Capture Mode Disabled

Name: Gi0/2
Switchport: Enabled
Administrative Mode: static access
Operational Mode: static access
Administrative Trunking Encapsulation: dot1q
Negotiation of Trunking: Off
Access Mode VLAN: 10 (users)
Trunking Native Mode VLAN: 1 (default)
Voice VLAN: 110 (voice)
Trunking VLANs Enabled: ALL
Pruning VLANs Enabled: 2-1001

Name: Po1
Switchport: Enabled
Administrative Mode: trunk
Operational Mode: trunk
Access Mode VLAN: 1 (default)
Trunking Native Mode VLAN: 1 (default)
Trunking VLANs Enabled: 10,20
`

const IOSShowEtherchannel = `Flags:  D - down        P - bundled in port-channel
        I - stand-alone s - suspended
        H - Hot-standby (LACP only)
        R - Layer3      S - Layer2
        U - in use      f - failed to allocate aggregator

        M - not in use, minimum links not met
        u - unsuitable for bundling
        w - waiting to be aggregated
        d - default port


Number of channel-groups in use: 2
Number of aggregators:           2

Group  Port-channel  Protocol    Ports
------+-------------+-----------+-----------------------------------------------
1      Po1(SU)         LACP      Gi0/1(P)    Gi0/2(P)
2      Po2(SU)         LACP      Gi0/3(P)    Gi0/4(P)
                                 Gi0/5(P)
`

const IOSShowStatus = `Port      Name               Status       Vlan       Duplex  Speed Type
Gi0/1     uplink to dist1    connected    trunk        full   1000 10/100/1000BaseTX
Gi0/2                        notconnect   1            auto   auto 10/100/1000BaseTX
Te1/1/1   storage array      connected    200          full    10G SFP-10GBase-SR
Po1                          connected    trunk      a-full  a-1000
`

const IOSShowMAC = `          Mac Address Table
-------------------------------------------

Vlan    Mac Address       Type        Ports
----    -----------       --------    -----
 All    0100.0ccc.cccc    STATIC      CPU
  10    001b.54aa.bb01    DYNAMIC     Gi0/1
  10    BC67.1C5A.0001    DYNAMIC     Gi0/5
  20    bc67.1c5a.0002    DYNAMIC     Po1
  20    bc67.1c5a.0002    DYNAMIC     Po1
Total Mac Addresses for this criterion: 5
`

const IOSShowLLDPDetail = `------------------------------------------------
Local Intf: Gi0/1
Chassis id: 5254.001e.aabb
Port id: Gi1/0/24
Port Description: downlink to access-sw1
System Name: dist1.example.net

System Description:
Cisco IOS Software, C3750E Software (C3750E-UNIVERSALK9-M), Version 15.2(4)E10

Time remaining: 95 seconds
System Capabilities: B,R
Enabled Capabilities: B
Management Addresses:
    IP: 10.0.254.2
Auto Negotiation - supported, enabled
Physical media capabilities:
    1000baseT(FD)
Media Attachment Unit type: 30
Vlan ID: 1

------------------------------------------------
Local Intf: Te1/1/1
Chassis id: 28ac.9eaa.0001
Port id: Ethernet1
Port Description: leaf1-uplink
System Name: leaf1

System Description:
Arista Networks EOS version 4.20.10M

Time remaining: 102 seconds
System Capabilities: B,R
Enabled Capabilities: B,R
Management Addresses:
    IP: 10.0.254.11


Total entries displayed: 2
`

const IOSShowCDPDetail = `-------------------------
Device ID: dist1.example.net
Entry address(es):
  IP address: 10.0.254.2
Platform: cisco WS-C3750E-24TD,  Capabilities: Switch IGMP
Interface: GigabitEthernet0/1,  Port ID (outgoing port): GigabitEthernet1/0/24
Holdtime : 133 sec

Version :
Cisco IOS Software, C3750E Software (C3750E-UNIVERSALK9-M), Version 15.2(4)E10

advertisement version: 2
Protocol Hello:  OUI=0x00000C, Protocol ID=0x0112; payload len=27
VTP Management Domain: 'corp'
Native VLAN: 1
Duplex: full

-------------------------
Device ID: voice-gw1
Entry address(es):
  IP address: 10.0.254.9
Platform: cisco ISR4331/K9,  Capabilities: Router Source-Route-Bridge
Interface: GigabitEthernet0/7,  Port ID (outgoing port): GigabitEthernet0/0/1
Holdtime : 155 sec

Total cdp entries displayed : 2
`

const IOSShowInventory = `NAME: "1", DESCR: "WS-C2960-24TT-L"
PID: WS-C2960-24TT-L   , VID: V02  , SN: FOC1049X1AB

NAME: "GigabitEthernet0/1", DESCR: "1000BaseSX SFP"
PID: GLC-SX-MM         , VID: V01  , SN: AGM1042X0B1

NAME: "Power Supply", DESCR: "FRU Power Supply"
PID: PWR-C2960         , VID:      , SN: LIT10490ZZZ
`

const XRShowBundle = `Bundle-Ether1
  Status:                                    Up
  Local links <active/standby/configured>:   2 / 0 / 2
  Local bandwidth <effective/available>:     2000000 (2000000) kbps
  MAC address (source):                      02ab.cdef.0001 (Chassis pool)
  Inter-chassis link:                        No
  Minimum active links / bandwidth:          1 / 1 kbps
  Maximum active links:                      64
  Wait while timer:                          2000 ms
  Load balancing:                            Default
  LACP:                                      Operational
    Flap suppression timer:                  Off
  mLACP:                                     Not configured
  IPv4 BFD:                                  Not configured

  Port                  Device           State        Port ID         B/W, kbps
  --------------------  ---------------  -----------  --------------  ----------
  Gi0/0/0/0             Local            Active       0x8000, 0x0001     1000000
  Gi0/0/0/1             Local            Active       0x8000, 0x0002     1000000
`

const NXOSShowVersion = `Cisco Nexus Operating System (NX-OS) Software
TAC support: http://www.cisco.com/tac
Copyright (C) 2002-2021, Cisco and/or its affiliates.

Software
  BIOS: version 07.66
  NXOS: version 9.3(8)
  BIOS compile time:  06/12/2019
  NXOS image file is: bootflash:///nxos.9.3.8.bin
  NXOS compile time:  8/4/2021 12:00:00 [08/04/2021 21:14:16]

Hardware
  cisco Nexus9000 C93180YC-EX chassis
  Intel(R) Xeon(R) CPU D-1528 @ 1.90GHz with 24632480 kB of memory.
  Processor Board ID FDO211201AB

  Device name: leaf1
  bootflash:   53298520 kB
Kernel uptime is 120 day(s), 3 hour(s), 44 minute(s), 10 second(s)

Last reset at 719086 usecs after Tue Jan  4 13:12:04 2022
  Reason: Reset Requested by CLI command reload
  System version: 9.3(7)
  Service:

plugin
  Core Plugin, Ethernet Plugin
`

const NXOSShowInterface = `mgmt0 is up
admin state is up,
  Hardware: GigabitEthernet, address: 00fe.c8aa.0000 (bia 00fe.c8aa.0000)
  Internet Address is 10.0.254.11/24
  MTU 1500 bytes, BW 1000000 Kbit, DLY 10 usec
  reliability 255/255, txload 1/255, rxload 1/255
Ethernet1/1 is up
admin state is up, Dedicated Interface
  Hardware: 100/1000/10000 Ethernet, address: 00fe.c8aa.0001 (bia 00fe.c8aa.0001)
  Description: to-spine1
  MTU 9216 bytes, BW 10000000 Kbit, DLY 10 usec
  reliability 255/255, txload 1/255, rxload 1/255
  Encapsulation ARPA, medium is broadcast
  Port mode is trunk
  full-duplex, 10 Gb/s, media type is 10G
  Beacon is turned off
  Auto-Negotiation is turned on  FEC mode is Auto
Ethernet1/3 is down (Administratively down)
admin state is down, Dedicated Interface
  Hardware: 100/1000/10000 Ethernet, address: 00fe.c8aa.0003 (bia 00fe.c8aa.0003)
  MTU 1500 bytes, BW 10000000 Kbit, DLY 10 usec
  reliability 255/255, txload 1/255, rxload 1/255
Ethernet1/5 is up
admin state is up, Dedicated Interface
  Hardware: 100/1000/10000 Ethernet, address: 00fe.c8aa.0005 (bia 00fe.c8aa.0005)
  Description: esx-host-11
  MTU 9216 bytes, BW 10000000 Kbit, DLY 10 usec
  Port mode is access
port-channel10 is up
admin state is up
  Hardware: Port-Channel, address: 00fe.c8aa.0001 (bia 00fe.c8aa.0001)
  Description: peer-link
  MTU 9216 bytes, BW 20000000 Kbit, DLY 10 usec
Vlan100 is up, line protocol is up, autostate enabled
  Hardware is EtherSVI, address is  00fe.c8aa.1064
  Description: servers
  Internet Address is 10.100.0.2/24
  MTU 1500 bytes, BW 1000000 Kbit, DLY 10 usec
`

const NXOSShowSwitchport = `Name: Ethernet1/1
  Switchport: Enabled
  Switchport Monitor: Not enabled
  Operational Mode: trunk
  Access Mode VLAN: 1 (default)
  Trunking Native Mode VLAN: 1 (default)
  Trunking VLANs Allowed: 1-99,101-999,1001-1999,2001-2999,3001-3999,4001-409
4
  Administrative private-vlan primary host-association: none
  Administrative private-vlan secondary host-association: none

Name: Ethernet1/5
  Switchport: Enabled
  Switchport Monitor: Not enabled
  Operational Mode: access
  Access Mode VLAN: 100 (servers)
  Trunking Native Mode VLAN: 1 (default)
  Trunking VLANs Allowed: 1-4094

Name: port-channel10
  Switchport: Enabled
  Operational Mode: trunk
  Access Mode VLAN: 1 (default)
  Trunking Native Mode VLAN: 1 (default)
  Trunking VLANs Allowed: 1-4094
`

const NXOSShowPortChannel = `Flags:  D - Down        P - Up in port-channel (members)
        I - Individual  H - Hot-standby (LACP only)
        s - Suspended   r - Module-removed
        b - BFD Session Wait
        S - Switched    R - Routed
        U - Up (port-channel)
        p - Up in delay-lacp mode (member)
        M - Not in use. Min-links not met
--------------------------------------------------------------------------------
Group Port-       Type     Protocol  Member Ports
      Channel
--------------------------------------------------------------------------------
10    Po10(SU)    Eth      LACP      Eth1/49(P)   Eth1/50(P)
`

const NXOSShowTransceiver = `Ethernet1/1
    transceiver is present
    type is 10Gbase-SR
    name is CISCO-AVAGO
    part number is SFBR-709SMZ-CS1
    revision is G2.3
    serial number is AGD1537FNS1
    nominal bitrate is 10300 MBit/sec
    Link length supported for 50/125um OM2 fiber is 82 m
    cisco id is --
    cisco extended id number is 4

Ethernet1/3
    transceiver is not present

Ethernet1/49
    transceiver is present
    type is QSFP-100G-SR4
    name is CISCO-FINISAR
    part number is FTLC9551REPM-C1
    serial number is FNS21120ABC
`

const NXOSShowMAC = `Legend:
        * - primary entry, G - Gateway MAC, (R) - Routed MAC, O - Overlay MAC
        age - seconds since last seen,+ - primary entry using vPC Peer-Link,
        (T) - True, (F) - False, C - ControlPlane MAC, ~ - vsan
   VLAN     MAC Address      Type      age     Secure NTFY Ports
---------+-----------------+--------+---------+------+----+------------------
*  100     0050.56aa.0001   dynamic  0         F      F    Eth1/5
*  100     0050.56aa.0002   dynamic  0         F      F    Po10
G    -     00fe.c8aa.0001   static   -         F      F    sup-eth1(R)
`

const NXOSShowLLDPDetail = `Capability codes:
  (R) Router, (B) Bridge, (T) Telephone, (C) DOCSIS Cable Device
  (W) WLAN Access Point, (P) Repeater, (S) Station, (O) Other
Device ID            Local Intf      Hold-time  Capability  Port ID

Chassis id: 002a.6aaa.bb01
Port id: Eth2/1
Local Port id: Eth1/1
Port Description: to-leaf1
System Name: spine1
System Description: Cisco Nexus Operating System (NX-OS) Software 9.3(8)
Time remaining: 114 seconds
System Capabilities: B, R
Enabled Capabilities: B, R
Management Address: 10.0.254.21
Management Address IPV6: not advertised
Vlan ID: not advertised

Chassis id: 0050.56aa.ff01
Port id: 0050.56aa.ff01
Local Port id: Eth1/5
Port Description: eth0
System Name: esx-host-11
System Description: VMware ESX Releasebuild-19482537
Time remaining: 98 seconds
System Capabilities: B
Enabled Capabilities: B
Management Address: 10.100.0.11
Vlan ID: not advertised

Total entries displayed: 2
`

const EOSShowVersion = `Arista DCS-7050TX-64-R
Hardware version:    01.02
Serial number:       JPE15233001
System MAC address:  001c.73aa.bb01

Software image version: 4.20.10M
Architecture:           i386
Internal build version: 4.20.10M-10040268.42010M
Internal build ID:      32f2e655-9d40-4af5-8a34-9f9e9e68a2b6

Uptime:                 8 weeks, 2 days, 4 hours and 18 minutes
Total memory:           3818208 kB
Free memory:            1799324 kB
`

const EOSShowInterfaces = `Ethernet1 is up, line protocol is up (connected)
  Hardware is Ethernet, address is 001c.73aa.bb11 (bia 001c.73aa.bb11)
  Description: to-spine1-eth1
  Internet address is 10.1.0.1/31
  Broadcast address is 255.255.255.255
  MTU 9214 bytes, BW 40000000 kbit
  Full-duplex, 40Gb/s, auto negotiation: off, uni-link: n/a
  Up 54 days, 23 hours, 8 minutes
Ethernet5 is up, line protocol is up (connected)
  Hardware is Ethernet, address is 001c.73aa.bb15 (bia 001c.73aa.bb15)
  Description: kvm-host-3
  MTU 9214 bytes, BW 10000000 kbit
  Full-duplex, 10Gb/s, auto negotiation: off, uni-link: n/a
Port-Channel10 is up, line protocol is up (connected)
  Hardware is Port-Channel, address is 001c.73aa.bb20
  Description: mlag peer-link
  MTU 9214 bytes, BW 20000000 kbit
Management1 is up, line protocol is up (connected)
  Hardware is Ethernet, address is 001c.73aa.bb00
  Internet address is 10.0.254.31/24
  Broadcast address is 255.255.255.255
  MTU 1500 bytes, BW 1000000 kbit
  Full-duplex, 1Gb/s, auto negotiation: on, uni-link: n/a
Vlan200 is up, line protocol is up
  Hardware is Vlan, address is 001c.73aa.bb30
  Description: storage
  Internet address is 10.200.0.3/24
  MTU 1500 bytes, BW 10000000 kbit
`

const EOSShowSwitchport = `Default switchport mode: access

Name: Et1
Switchport: Enabled
Administrative Mode: trunk
Operational Mode: trunk
MAC Address Learning: enabled
Dot1q ethertype/TPID: 0x8100 (active)
Access Mode VLAN: 1 (default)
Trunking Native Mode VLAN: 1 (default)
Administrative Native VLAN tagging: disabled
Trunking VLANs Enabled: 100,200
Static Trunk Groups:
Dynamic Trunk Groups:
Source interface filtering: enabled

Name: Et5
Switchport: Enabled
Administrative Mode: static access
Operational Mode: static access
MAC Address Learning: enabled
Access Mode VLAN: 100 (servers)
Trunking Native Mode VLAN: 1 (default)
Trunking VLANs Enabled: ALL
`

const EOSShowPortChannel = `                 Flags
------------------------ ---------------------------- -------------------------
  U = In Use             p = periodic pdus (LACP)     d = default configuration
  F = Fallback enabled   s = sync tx/rx (LACP)
                         G = aggregable (LACP)

Number of channels in use: 1
Number of aggregators: 1

   Group  Port-Channel       Protocol    Ports
   ------ ------------------ ----------- ------------------
   10     Po10(U)            LACP        Et5(PG+) Et6(PG+)
`

const EOSShowStatus = `Port       Name            Status       Vlan     Duplex Speed  Type         Flags Encapsulation
Et1        to-spine1-eth1  connected    routed   full   40G    40GBASE-SR4
Et5        kvm-host-3      connected    100      full   10G    10GBASE-SR
Et6                        connected    100      full   10G    10GBASE-SR
Ma1                        connected    routed   a-full a-1G   10/100/1000
`

const EOSShowMAC = `          Mac Address Table
------------------------------------------------------------------

Vlan    Mac Address       Type        Ports      Moves   Last Move
----    -----------       ----        -----      -----   ---------
 100    001c.73aa.bb99    DYNAMIC     Et5        1       0:01:13 ago
 100    0050.56bb.0003    DYNAMIC     Po10       1       8:22:01 ago
Total Mac Addresses for this criterion: 2

          Multicast Mac Address Table
------------------------------------------------------------------

Vlan    Mac Address       Type        Ports
----    -----------       ----        -----
Total Mac Addresses for this criterion: 0
`

const EOSShowLLDPDetail = `Interface Ethernet1 detected 1 LLDP neighbors:

  Neighbor 001c.73bb.cc01/"Ethernet1", age 13 seconds
  Discovered 2:07:27 ago; Last changed 2:07:27 ago
  - Chassis ID type: MAC address (4)
  - Chassis ID     : 001c.73bb.cc01
  - Port ID type: Interface name(5)
  - Port ID     : "Ethernet1"
  - Time To Live: 120 seconds
  - Port Description: "to-leaf1-eth1"
  - System Name: "spine1"
  - System Description: "Arista Networks EOS version 4.20.10M running on an Arista Networks DCS-7050QX-32"
  - System Capabilities : Bridge, Router
  - Enabled Capabilities: Bridge, Router
  - Management Address Subtype: IPv4
  - Management Address        : 10.0.254.21
  - Interface Number Subtype: ifIndex (2)
  - Interface Number: 999001

Interface Management1 detected 1 LLDP neighbors:

  Neighbor 5254.00dd.ee01/"Gi0/12", age 7 seconds
  Discovered 1:42:12 ago; Last changed 1:42:12 ago
  - Chassis ID type: MAC address (4)
  - Chassis ID     : 5254.00dd.ee01
  - Port ID type: Interface name(5)
  - Port ID     : "Gi0/12"
  - System Name: "oob-sw3"
  - System Description: "Cisco IOS Software, C2960 Software"
  - Management Address Subtype: IPv4
  - Management Address        : 10.0.254.3
`

const JunosShowVersion = `Hostname: edge1
Model: ex4300-48t
Junos: 18.4R3-S10
JUNOS OS Kernel 64-bit  [20210802.7545e72_builder_stable_11]
JUNOS OS libs [20210802.7545e72_builder_stable_11]
JUNOS OS runtime [20210802.7545e72_builder_stable_11]
JUNOS py extensions [20211109.141332_builder_junos_184_r3_s10]
`

const JunosShowInterfaces = `Physical interface: ge-0/0/5, Enabled, Physical link is Up
  Interface index: 140, SNMP ifIndex: 518
  Description: to-core1
  Link-level type: Ethernet, MTU: 1514, Speed: 1000mbps, Duplex: Full-duplex, BPDU Error: None, Loop Detect PDU Error: None
  Source filtering: Disabled, Flow control: Disabled, Auto-negotiation: Enabled
  Device flags   : Present Running
  Interface flags: SNMP-Traps Internal: 0x4000
  Link flags     : None
  CoS queues     : 8 supported, 8 maximum usable queues
  Current address: 54:e0:32:aa:bb:05, Hardware address: 54:e0:32:aa:bb:05
  Last flapped   : 2023-03-01 07:10:23 UTC (12w3d 01:02 ago)
  Input rate     : 704 bps (1 pps)
  Output rate    : 1616 bps (2 pps)

  Logical interface ge-0/0/5.0 (Index 70) (SNMP ifIndex 519)
    Flags: Up SNMP-Traps 0x0 Encapsulation: ENET2
    Input packets : 140563312
    Output packets: 155002941
    Protocol eth-switch, MTU: 1514

Physical interface: xe-0/2/0, Enabled, Physical link is Up
  Interface index: 152, SNMP ifIndex: 530
  Description: uplink-edge2
  Link-level type: Ethernet, MTU: 9192, LAN-PHY mode, Speed: 10Gbps, BPDU Error: None, Loop Detect PDU Error: None
  Current address: 54:e0:32:aa:bb:20, Hardware address: 54:e0:32:aa:bb:20

  Logical interface xe-0/2/0.0 (Index 88) (SNMP ifIndex 531)
    Flags: Up SNMP-Traps 0x4004000 Encapsulation: ENET2
    Protocol inet, MTU: 9178
      Flags: Sendbcast-pkt-to-re
      Addresses, Flags: Is-Preferred Is-Primary
        Destination: 10.30.0.0/31, Local: 10.30.0.1, Broadcast: Unspecified

Physical interface: ae0, Enabled, Physical link is Up
  Interface index: 128, SNMP ifIndex: 600
  Description: dual-homed to cores
  Link-level type: Ethernet, MTU: 1514, Speed: 2Gbps, BPDU Error: None
  Current address: 54:e0:32:aa:bb:f0, Hardware address: 54:e0:32:aa:bb:f0

  Logical interface ae0.0 (Index 90) (SNMP ifIndex 601)
    Flags: Up SNMP-Traps 0x0 Encapsulation: ENET2
    Protocol eth-switch, MTU: 1514

Physical interface: me0, Enabled, Physical link is Up
  Interface index: 64, SNMP ifIndex: 33
  Link-level type: Ethernet, MTU: 1514, Speed: 1000mbps
  Current address: 54:e0:32:aa:bb:fe, Hardware address: 54:e0:32:aa:bb:fe
`

const JunosShowLACP = `Aggregated interface: ae0
    LACP state:       Role   Exp   Def  Dist  Col  Syn  Aggr  Timeout  Activity
      ge-0/0/46       Actor    No    No   Yes  Yes  Yes   Yes     Fast    Active
      ge-0/0/46     Partner    No    No   Yes  Yes  Yes   Yes     Fast    Active
      ge-0/0/47       Actor    No    No   Yes  Yes  Yes   Yes     Fast    Active
      ge-0/0/47     Partner    No    No   Yes  Yes  Yes   Yes     Fast    Active
    LACP protocol:        Receive State  Transmit State          Mux State
      ge-0/0/46                  Current   Fast periodic Collecting distributing
      ge-0/0/47                  Current   Fast periodic Collecting distributing
`

const JunosShowSwitching = `MAC flags (S - static MAC, D - dynamic MAC, L - locally learned, P - Persistent static)
          SE - statistics enabled, NM - non configured MAC, R - remote PE MAC, O - ovsdb MAC


Ethernet switching table : 3 entries, 3 learned
Routing instance : default-switch
    Vlan                MAC                 MAC         Age    Logical
    name                address             flags              interface
    v100                00:50:56:aa:00:01   D             -   ge-0/0/5.0
    v100                00:50:56:aa:00:02   D             -   ae0.0
    v200                54:e0:32:bb:cc:01   D             -   xe-0/2/0.0
`

const JunosShowLLDP = `Local Interface    Parent Interface    Chassis Id          Port info          System Name
ge-0/0/5.0         -                   001c.73aa.bb01      Et5                leaf3
xe-0/2/0.0         -                   54:e0:32:dd:ee:01   xe-1/0/3           edge2
ge-0/0/46.0        ae0.0               002a.6aaa.bb01      Eth1/7             spine1
`

const JunosShowChassis = `Hardware inventory:
Item             Version  Part number  Serial number     Description
Chassis                                PE3716010001      EX4300-48T
Pseudo CB 0
Routing Engine 0          BUILTIN      BUILTIN           EX4300-48T, 48 Port 10/100/1000 BaseT
FPC 0            REV 12   650-044931   PE3716010001      EX4300-48T, 48 Port 10/100/1000 BaseT
  PIC 0                   BUILTIN      BUILTIN           48x 10/100/1000 BaseT
  PIC 1                   BUILTIN      BUILTIN           4x 40GE QSFP+
    Xcvr 0       REV 01   740-032986   QB1234567         QSFP+-40G-SR4
Power Supply 0   REV 03   740-046873   1EDN5210400       JPSU-350-AC-AFO
Fan Tray 0                                               Fan Tray, Front to Back Airflow
`

const QtechShowVersion = `System description      : QTECH QSW-6900-32F series switch(QSW-6900-32F-R2) BY QTECH
System start time       : 2022-11-02 09:31:56
System uptime           : 295:04:22:10
System hardware version : 1.20
System software version : QSW-6900 RGOS 11.0(5)B9P30
System patch number     : NA
System serial number    : G1QW31V000123
System boot version     : 1.3.11
`

const QtechShowInterface = `Index(dec):1 (hex):1
GigabitEthernet 0/1 is UP  , line protocol is UP
  Hardware is GigabitEthernet, address is 001f.ceaa.bb01 (bia 001f.ceaa.bb01)
  Interface address is: no ip address
  MTU 1500 bytes, BW 1000000 Kbit
  Encapsulation protocol is Ethernet-II, loopback not set
  Medium-type is Copper
  Lastchange time: 2023-02-11 10:11:12
Index(dec):49 (hex):31
TFGigabitEthernet 0/49 is UP  , line protocol is UP
  Hardware is TFGigabitEthernet, address is 001f.ceaa.bb31 (bia 001f.ceaa.bb31)
  Description: uplink-agg1
  MTU 1500 bytes, BW 25000000 Kbit
  Medium-type is Fiber
Index(dec):57 (hex):39
AggregatePort 1 is UP  , line protocol is UP
  Hardware is AggregateLink, address is 001f.ceaa.bb31 (bia 001f.ceaa.bb31)
  MTU 1500 bytes, BW 50000000 Kbit
Index(dec):4095 (hex):fff
VLAN 100 is UP  , line protocol is UP
  Hardware is VLAN, address is 001f.ceaa.bbff (bia 001f.ceaa.bbff)
  Description: mgmt vlan
  Interface address is: 10.50.0.2/24
  MTU 1500 bytes, BW 1000000 Kbit
`

const QtechShowSwitchport = `Interface                        Switchport Mode     Access Native Protected VLAN lists
-------------------------------- ---------- -------- ------ ------ --------- ----------
GigabitEthernet 0/1              enabled    ACCESS   100    1      Disabled  ALL
GigabitEthernet 0/2              enabled    ACCESS   100    1      Disabled  ALL
TFGigabitEthernet 0/49           enabled    TRUNK    1      1      Disabled  100,200,300-310
AggregatePort 1                  enabled    TRUNK    1      1      Disabled  ALL
`

const QtechShowAggregatePort = `AggregatePort MaxPorts SwitchPort Mode   Load balance    Ports
------------- -------- ---------- ------ --------------- -----------------------------
Ag1           8        Enabled    Trunk  dst-src-mac     TFGi0/49,TFGi0/50
`

const QtechShowMAC = `Vlan  MAC Address       Type     Interface
----- ----------------- -------- -------------------
100   0050.56aa.dd01    DYNAMIC  GigabitEthernet 0/1
100   0050.56aa.dd02    DYNAMIC  AggregatePort 1
200   0050.56aa.dd03    STATIC   GigabitEthernet 0/2
`

const QtechShowLLDP = `Capability codes:
    (R) Router, (B) Bridge, (T) Telephone, (C) DOCSIS Cable Device
    (W) WLAN Access Point, (P) Repeater, (S) Station, (O) Other

Local Intf     Neighbor Intf      Neighbor Device              Hold-time    Capability
-------------- ------------------ ---------------------------- ------------ ----------
Gi0/48         Te1/0/1            core1                        120          B,R
Ag1            Hu0/55             agg-core1                    120          B,R
`
