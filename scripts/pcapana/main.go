package main

import (
	"TopSpectra/internal/engine/protocol"
	"fmt"
	"log"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts/pcapana/main.go <path_to_pcap_file>")
		os.Exit(1)
	}
	pcapFilePath := os.Args[1]
	handle, err := pcap.OpenOffline(pcapFilePath)
	if err != nil {
		log.Fatal(err)
	}
	defer handle.Close()

	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	mapping := protocol.Mapping{GroupBy: "src_ip", Metric: "frame_len"}

	i := 0
	for packet := range packetSource.Packets() {
		event, err := protocol.ParsePacket(packet.Data(), mapping)
		if err != nil {
			fmt.Println("Parse error:", err)
			break
		}
		i++
		fmt.Printf("[%s] group=%s value=%d\n",
			event.Timestamp.Format("15:04:05.000"),
			event.Group, event.Value,
		)
		if i >= 5 {
			break
		}
	}
}
