package session

import "math/rand"

const (
	codeLength       = 4
	codeAttemptsEach = 100 // draws per code length before growing the code
)

// codeAlphabet leaves out I and O, which read like 1 and 0 on a shared screen.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// newCode draws a join code from rng that taken reports as free. Codes are
// four letters; if that space keeps colliding the code grows by one letter.
func newCode(rng *rand.Rand, taken func(code string) bool) string {
	for n := codeLength; ; n++ {
		for i := 0; i < codeAttemptsEach; i++ {
			if code := drawCode(rng, n); !taken(code) {
				return code
			}
		}
	}
}

func drawCode(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[rng.Intn(len(codeAlphabet))]
	}
	return string(b)
}
