package test

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomCode returns a pseudo-random voucher code starting with prefix.
// The total length is prefix plus between minLen and maxLen characters.
func RandomCode(prefix string, minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen
	if maxLen > minLen {
		length += randomIntn(maxLen - minLen + 1)
	}
	var b strings.Builder
	b.WriteString(prefix)
	for i := 0; i < length; i++ {
		b.WriteByte(codeAlphabet[randomIntn(len(codeAlphabet))])
	}
	return b.String()
}

// RandomCodes returns n codes with random prefixes drawn from prefixes.
func RandomCodes(n int, prefixes ...string) []string {
	if len(prefixes) == 0 {
		prefixes = []string{""}
	}
	codes := make([]string, n)
	for i := range codes {
		codes[i] = RandomCode(prefixes[randomIntn(len(prefixes))], 4, 8)
	}
	return codes
}

func randomIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
