package main

import (
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"time"
)

type RankEntry struct {
	Value int64
	Count int
}

type GroupRanking struct {
	Group     string
	WindowEnd time.Time
	Entries   []RankEntry
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts/gobana/main.go <rankings.dat>")
		os.Exit(1)
	}
	gobFile := os.Args[1]

	file, err := os.Open(gobFile)
	if err != nil {
		log.Fatalf("Unable to open file: %v", err)
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)

	var groups []GroupRanking

	err = decoder.Decode(&groups)
	if err != nil {
		log.Fatalf("Failed to decode gob data: %v", err)
	}

	fmt.Println("Decoded Rankings:")
	for _, g := range groups {
		fmt.Printf("group=%s window_end=%s\n", g.Group, g.WindowEnd.UTC().Format(time.RFC3339))
		for i, e := range g.Entries {
			fmt.Printf("  #%d value=%d count=%d\n", i+1, e.Value, e.Count)
		}
	}
}
