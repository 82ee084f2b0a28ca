package pcap

import (
	"TopSpectra/internal/engine/protocol"
	"TopSpectra/internal/model"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/require"
)

// writeTestPcap generates a capture with one TCP packet per source address.
func writeTestPcap(t *testing.T, sources []net.IP) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))

	base := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	for i, src := range sources {
		ethLayer := &layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
			DstMAC:       net.HardwareAddr{0x00, 0x66, 0x77, 0x88, 0x99, 0xAA},
			EthernetType: layers.EthernetTypeIPv4,
		}
		ipLayer := &layers.IPv4{
			SrcIP:    src,
			DstIP:    net.IP{192, 168, 1, 1},
			Version:  4,
			TTL:      64,
			Protocol: layers.IPProtocolTCP,
		}
		tcpLayer := &layers.TCP{SrcPort: 40000, DstPort: 443, SYN: true, Window: 14600}
		require.NoError(t, tcpLayer.SetNetworkLayerForChecksum(ipLayer))

		buf := gopacket.NewSerializeBuffer()
		opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
		require.NoError(t, gopacket.SerializeLayers(buf, opts, ethLayer, ipLayer, tcpLayer))

		ci := gopacket.CaptureInfo{
			Timestamp:     base.Add(time.Duration(i) * time.Millisecond),
			CaptureLength: len(buf.Bytes()),
			Length:        len(buf.Bytes()),
		}
		require.NoError(t, w.WritePacket(ci, buf.Bytes()))
	}

	return path
}

func TestReaderReadEvents(t *testing.T) {
	sources := []net.IP{{10, 0, 0, 1}, {10, 0, 0, 2}, {10, 0, 0, 1}}
	path := writeTestPcap(t, sources)

	reader, err := NewReader(path, protocol.Mapping{GroupBy: "src_ip", Metric: "frame_len"})
	require.NoError(t, err)
	defer reader.Close()

	out := make(chan *model.Event, 16)
	go func() {
		reader.ReadEvents(out)
		close(out)
	}()

	var groups []string
	for event := range out {
		groups = append(groups, event.Group)
		require.Positive(t, event.Value)
	}

	require.Equal(t, []string{"10.0.0.1", "10.0.0.2", "10.0.0.1"}, groups)
}
