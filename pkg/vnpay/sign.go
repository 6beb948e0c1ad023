package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"sort"
	"strings"
)

// sortedKeys returns the keys of params in ascending byte order. The sort is
// plain codepoint comparison, never locale dependent, because the provider
// computes its signature over the same ordering.
func sortedKeys(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// signData serializes params as key=value pairs joined by "&", keys in
// ascending order and values verbatim. The signing string deliberately skips
// URL encoding: the provider signs raw values even though the transmitted
// query string is encoded.
func signData(params map[string]string) string {
	var b strings.Builder

	for i, k := range sortedKeys(params) {
		if i > 0 {
			b.WriteByte('&')
		}

		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}

	return b.String()
}

// Sign computes the HMAC-SHA512 signature of the canonical serialization of
// params using secret, returned as lowercase hex.
func Sign(secret string, params map[string]string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(signData(params)))

	return hex.EncodeToString(mac.Sum(nil))
}

// signatureEqual compares two hex signatures without leaking timing
// information about the position of the first mismatch.
func signatureEqual(a, b string) bool {
	return hmac.Equal([]byte(strings.ToLower(a)), []byte(strings.ToLower(b)))
}
