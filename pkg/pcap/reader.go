package pcap

import (
	"TopSpectra/internal/engine/protocol"
	"TopSpectra/internal/model"
	"log"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

// Reader reads packets from a pcap file.
type Reader struct {
	handle  *pcap.Handle
	mapping protocol.Mapping
}

// NewReader creates a new pcap reader for the given file path.
func NewReader(filePath string, mapping protocol.Mapping) (*Reader, error) {
	handle, err := pcap.OpenOffline(filePath)
	if err != nil {
		return nil, err
	}
	return &Reader{handle: handle, mapping: mapping}, nil
}

// Close closes the pcap handle.
func (r *Reader) Close() {
	r.handle.Close()
}

// ReadEvents reads all packets from the pcap file and sends the parsed
// events to the provided channel.
func (r *Reader) ReadEvents(out chan<- *model.Event) {
	packetSource := gopacket.NewPacketSource(r.handle, r.handle.LinkType())
	for packet := range packetSource.Packets() {
		event, err := protocol.ParsePacket(packet.Data(), r.mapping)
		if err != nil {
			// We log errors from the parser but continue processing.
			// This could be because of unsupported packet types or corrupt data.
			log.Printf("Error parsing packet: %v", err)
			continue
		}
		out <- event
	}
}
