package hash

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// phcEncoding is the unpadded standard base64 alphabet used by PHC strings.
var phcEncoding = base64.RawStdEncoding

// phcHash is the decoded form of "$<id>[$v=<n>]$<k=v,...>$<salt>$<key>".
type phcHash struct {
	id      string
	version string
	params  map[string]int
	salt    []byte
	key     []byte
}

func (p phcHash) String() string {
	var b strings.Builder
	b.WriteString("$")
	b.WriteString(p.id)
	if p.version != "" {
		b.WriteString("$v=")
		b.WriteString(p.version)
	}
	b.WriteString("$")
	b.WriteString(formatParams(p.params))
	b.WriteString("$")
	b.WriteString(phcEncoding.EncodeToString(p.salt))
	b.WriteString("$")
	b.WriteString(phcEncoding.EncodeToString(p.key))
	return b.String()
}

// formatParams writes params in a fixed order so the output is stable.
func formatParams(params map[string]int) string {
	order := []string{"i", "ln", "m", "t", "r", "p"}
	parts := make([]string, 0, len(params))
	for _, k := range order {
		if v, ok := params[k]; ok {
			parts = append(parts, k+"="+strconv.Itoa(v))
		}
	}
	return strings.Join(parts, ",")
}

func parsePHC(hashed, wantID string) (phcHash, error) {
	parts := strings.Split(hashed, "$")
	if len(parts) < 5 || parts[0] != "" {
		return phcHash{}, fmt.Errorf("%w: %s: unexpected segment count", ErrInvalidHash, wantID)
	}
	if parts[1] != wantID {
		return phcHash{}, fmt.Errorf("%w: %s: unexpected identifier %q", ErrInvalidHash, wantID, parts[1])
	}

	out := phcHash{id: parts[1]}
	rest := parts[2:]
	if strings.HasPrefix(rest[0], "v=") {
		out.version = strings.TrimPrefix(rest[0], "v=")
		rest = rest[1:]
	}
	if len(rest) != 3 {
		return phcHash{}, fmt.Errorf("%w: %s: unexpected segment count", ErrInvalidHash, wantID)
	}

	params, err := parseParams(rest[0])
	if err != nil {
		return phcHash{}, fmt.Errorf("%w: %s: %v", ErrInvalidHash, wantID, err)
	}
	out.params = params

	if out.salt, err = phcEncoding.DecodeString(rest[1]); err != nil {
		return phcHash{}, fmt.Errorf("%w: %s: salt: %v", ErrInvalidHash, wantID, err)
	}
	if out.key, err = phcEncoding.DecodeString(rest[2]); err != nil {
		return phcHash{}, fmt.Errorf("%w: %s: key: %v", ErrInvalidHash, wantID, err)
	}
	if len(out.salt) == 0 || len(out.key) == 0 {
		return phcHash{}, fmt.Errorf("%w: %s: empty salt or key", ErrInvalidHash, wantID)
	}
	return out, nil
}

// parseParams splits "m=65536,t=3,p=2" into a map of positive integers.
func parseParams(s string) (map[string]int, error) {
	out := make(map[string]int)
	for _, kv := range strings.Split(s, ",") {
		eq := strings.IndexByte(kv, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("malformed param %q", kv)
		}
		v, err := strconv.Atoi(kv[eq+1:])
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid value in %q", kv)
		}
		out[kv[:eq]] = v
	}
	return out, nil
}

func (p phcHash) require(keys ...string) error {
	for _, k := range keys {
		if _, ok := p.params[k]; !ok {
			return fmt.Errorf("%w: %s: missing parameter %q", ErrInvalidHash, p.id, k)
		}
	}
	return nil
}

func randomSalt(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("hash: failed to generate salt: %w", err)
	}
	return b, nil
}
