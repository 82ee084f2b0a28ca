package main

import (
	"TopSpectra/internal/config"
	"TopSpectra/internal/engine/protocol"
	"TopSpectra/internal/model"
	"TopSpectra/internal/probe"
	"TopSpectra/internal/probe/persistent"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

const (
	snapshotLen int32 = 1600
	promiscuous       = true
	timeout           = pcap.BlockForever
)

func main() {
	// --- Command-Line Flag Parsing ---
	mode := flag.String("mode", "sub", "Operating mode: 'pub' to capture and publish, 'sub' to subscribe and print.")
	iface := flag.String("iface", "", "Interface to capture packets from (required for pub mode).")
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// --- Mode Dispatch ---
	switch *mode {
	case "pub":
		runProbe(cfg, *iface)
	case "sub":
		runSubscriber(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Invalid mode: %s\n", *mode)
		flag.Usage()
		os.Exit(1)
	}
}

// runProbe captures packets, maps them to events, and publishes them to NATS.
func runProbe(cfg *config.Config, interfaceName string) {
	if interfaceName == "" {
		log.Println("Error: -iface flag is required for probe mode.")
		flag.Usage()
		os.Exit(1)
	}
	log.Printf("Starting ts-probe in PROBE mode on interface: %s", interfaceName)

	mapping := protocol.Mapping{GroupBy: cfg.Probe.GroupBy, Metric: cfg.Probe.Metric}

	// Initialize NATS Publisher
	pub, err := probe.NewPublisher(cfg.Probe)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer pub.Close()

	// Optionally persist the captured traffic locally
	var worker *persistent.Worker
	if cfg.Probe.Persistence.Enabled {
		worker, err = persistent.NewWorker(cfg.Probe.Persistence)
		if err != nil {
			log.Fatalf("Failed to start persistence worker: %v", err)
		}
		defer worker.Stop()
	}

	// Open device for live capture
	handle, err := pcap.OpenLive(interfaceName, snapshotLen, promiscuous, timeout)
	if err != nil {
		log.Fatalf("Error opening device %s: %v", interfaceName, err)
	}
	defer handle.Close()

	log.Println("Capture started successfully. Publishing events to NATS...")

	// Set up a channel to handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start processing packets in a separate goroutine
	go func() {
		packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
		eventsPublished := 0
		for packet := range packetSource.Packets() {
			event, err := protocol.ParsePacket(packet.Data(), mapping)
			if err != nil {
				continue // Skip packets the mapping cannot project
			}
			if err := pub.Publish(event); err != nil {
				log.Printf("Failed to publish event: %v", err)
			}
			if worker != nil {
				worker.Enqueue(&persistent.EventContainer{RawPacket: packet, Event: event})
			}
			eventsPublished++
			if eventsPublished%1000 == 0 {
				log.Printf("%d events published...", eventsPublished)
			}
		}
	}()

	// Wait for a shutdown signal
	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
}

// runSubscriber subscribes to NATS and prints received events.
func runSubscriber(cfg *config.Config) {
	log.Println("Starting ts-probe in SUBSCRIBER mode...")

	// Create a new subscriber
	sub, err := probe.NewSubscriber(cfg.Probe)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}
	defer sub.Close()

	// Define the handler function for received events
	handler := func(event model.Event) {
		log.Printf("Received Event: %+v", event)
	}

	// Start listening for messages
	if err := sub.Start(handler); err != nil {
		log.Fatalf("Subscriber failed to start: %v", err)
	}

	// Set up a channel to handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for a shutdown signal
	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
}
