package vectorizer

import (
	"strings"

	"github.com/zeebo/xxh3"
)

// probeMarker is appended once per probe index to salt a token's hash.
const probeMarker = "#"

// HashSign returns the bucket and sign for token under the given probe.
// The key hashed is token followed by probe copies of "#"; the hash is
// xxh3-64.
func (v *HashingVectorizer) HashSign(token string, probe int) (bucket int, sign float64) {
	if probe < 0 {
		probe = 0
	}
	return hashSplit(xxh3.HashString(token+strings.Repeat(probeMarker, probe)), v.dim)
}

// hashSplit turns a 64-bit hash into a bucket and a sign.
func hashSplit(h uint64, dim int) (bucket int, sign float64) {
	// Upper 32 bits select the bucket; the parity bit selects the sign, so
	// the two stay independent even when dim is even.
	bucket = int((h >> 32) % uint64(dim))
	if h&1 == 0 {
		return bucket, 1.0
	}
	return bucket, -1.0
}

// saltedKey returns token followed by probes-1 markers. The key for probe p
// is its prefix of length len(token)+p, which avoids one allocation per probe.
func saltedKey(token string, probes int) string {
	if probes <= 1 {
		return token
	}
	return token + strings.Repeat(probeMarker, probes-1)
}

// Accumulate adds the signed probe increments of tokens to dst and returns
// the number of increments made, len(tokens)*Probes. dst must hold Dim
// entries. No normalization is applied.
func (v *HashingVectorizer) Accumulate(dst []float64, tokens []string) int {
	for _, token := range tokens {
		key := saltedKey(token, v.probes)
		for probe := 0; probe < v.probes; probe++ {
			i, incr := hashSplit(xxh3.HashString(key[:len(token)+probe]), v.dim)
			dst[i] += incr
		}
	}
	return len(tokens) * v.probes
}
