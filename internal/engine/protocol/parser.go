package protocol

import (
	"TopSpectra/internal/model"
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Mapping selects which packet attribute becomes the ranking group and which
// becomes the ranked value.
type Mapping struct {
	GroupBy string // "src_ip" or "dst_ip"
	Metric  string // "frame_len", "src_port" or "dst_port"
}

// ParsePacket uses gopacket to decode a raw packet and project it onto a
// ranking event according to the mapping.
func ParsePacket(data []byte, mapping Mapping) (*model.Event, error) {
	packet := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default)

	timestamp := time.Now() // Default to now, overwritten by packet metadata if available
	if meta := packet.Metadata(); meta != nil && !meta.Timestamp.IsZero() {
		timestamp = meta.Timestamp
	}

	l := packet.Layer(layers.LayerTypeIPv4)
	if l == nil {
		// Handle IPv6 if necessary, for now we skip non-IPv4
		return nil, fmt.Errorf("not an IPv4 packet")
	}
	ipLayer := l.(*layers.IPv4)

	var group string
	switch mapping.GroupBy {
	case "src_ip":
		group = ipLayer.SrcIP.String()
	case "dst_ip":
		group = ipLayer.DstIP.String()
	default:
		return nil, fmt.Errorf("unknown group_by field: %s", mapping.GroupBy)
	}

	var srcPort, dstPort uint16
	if l := packet.Layer(layers.LayerTypeTCP); l != nil {
		tcpLayer := l.(*layers.TCP)
		srcPort = uint16(tcpLayer.SrcPort)
		dstPort = uint16(tcpLayer.DstPort)
	} else if l := packet.Layer(layers.LayerTypeUDP); l != nil {
		udpLayer := l.(*layers.UDP)
		srcPort = uint16(udpLayer.SrcPort)
		dstPort = uint16(udpLayer.DstPort)
	} else if mapping.Metric != "frame_len" {
		// Port metrics need a transport layer; frame length does not.
		return nil, fmt.Errorf("not a TCP or UDP packet")
	}

	var value int64
	switch mapping.Metric {
	case "frame_len":
		value = int64(len(data))
	case "src_port":
		value = int64(srcPort)
	case "dst_port":
		value = int64(dstPort)
	default:
		return nil, fmt.Errorf("unknown metric field: %s", mapping.Metric)
	}

	return &model.Event{Timestamp: timestamp, Group: group, Value: value}, nil
}
