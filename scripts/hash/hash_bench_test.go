package main

import (
	"fmt"
	"hash/crc32"
	"hash/fnv"
	"math/rand"
	"testing"

	"github.com/cespare/xxhash/v2"
)

// Group keys are short strings (IPs, user ids). These benchmarks compare the
// candidates for the shard hash on that shape of input.

func makeKeys(n int) []string {
	rng := rand.New(rand.NewSource(1))
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("10.%d.%d.%d", rng.Intn(256), rng.Intn(256), rng.Intn(256))
	}
	return keys
}

func BenchmarkFNV32a(b *testing.B) {
	keys := makeKeys(1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h := fnv.New32a()
		h.Write([]byte(keys[i%len(keys)]))
		_ = h.Sum32()
	}
}

func BenchmarkCRC32(b *testing.B) {
	keys := makeKeys(1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = crc32.ChecksumIEEE([]byte(keys[i%len(keys)]))
	}
}

func BenchmarkXXHash64(b *testing.B) {
	keys := makeKeys(1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = xxhash.Sum64String(keys[i%len(keys)])
	}
}
