package protocol

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/require"
)

// buildTCPPacket serializes a minimal Ethernet/IPv4/TCP frame.
func buildTCPPacket(t *testing.T, srcIP, dstIP net.IP, srcPort, dstPort uint16, payloadSize int) []byte {
	t.Helper()

	ethLayer := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0x00, 0x66, 0x77, 0x88, 0x99, 0xAA},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ipLayer := &layers.IPv4{
		SrcIP:    srcIP,
		DstIP:    dstIP,
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
	}
	tcpLayer := &layers.TCP{
		SrcPort: layers.TCPPort(srcPort),
		DstPort: layers.TCPPort(dstPort),
		SYN:     true,
		Window:  14600,
	}
	require.NoError(t, tcpLayer.SetNetworkLayerForChecksum(ipLayer))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
	payload := make([]byte, payloadSize)
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ethLayer, ipLayer, tcpLayer, gopacket.Payload(payload)))

	return buf.Bytes()
}

func TestParsePacketGroupBySourceIP(t *testing.T) {
	data := buildTCPPacket(t, net.IP{10, 0, 0, 1}, net.IP{192, 168, 1, 2}, 40000, 443, 100)

	event, err := ParsePacket(data, Mapping{GroupBy: "src_ip", Metric: "frame_len"})
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1", event.Group)
	require.Equal(t, int64(len(data)), event.Value)
}

func TestParsePacketPortMetrics(t *testing.T) {
	data := buildTCPPacket(t, net.IP{10, 0, 0, 1}, net.IP{192, 168, 1, 2}, 40000, 443, 0)

	event, err := ParsePacket(data, Mapping{GroupBy: "dst_ip", Metric: "dst_port"})
	require.NoError(t, err)
	require.Equal(t, "192.168.1.2", event.Group)
	require.Equal(t, int64(443), event.Value)

	event, err = ParsePacket(data, Mapping{GroupBy: "dst_ip", Metric: "src_port"})
	require.NoError(t, err)
	require.Equal(t, int64(40000), event.Value)
}

func TestParsePacketRejectsUnknownMapping(t *testing.T) {
	data := buildTCPPacket(t, net.IP{10, 0, 0, 1}, net.IP{192, 168, 1, 2}, 40000, 443, 0)

	_, err := ParsePacket(data, Mapping{GroupBy: "protocol", Metric: "frame_len"})
	require.Error(t, err)

	_, err = ParsePacket(data, Mapping{GroupBy: "src_ip", Metric: "byte_count"})
	require.Error(t, err)
}

func TestParsePacketRejectsNonIPv4(t *testing.T) {
	// An ARP frame has no IPv4 layer to group on.
	ethLayer := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		EthernetType: layers.EthernetTypeARP,
	}
	arpLayer := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		SourceProtAddress: []byte{10, 0, 0, 1},
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte{10, 0, 0, 2},
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ethLayer, arpLayer))

	_, err := ParsePacket(buf.Bytes(), Mapping{GroupBy: "src_ip", Metric: "frame_len"})
	require.Error(t, err)
}
