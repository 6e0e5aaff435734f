package worker

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func encodeIMDKVs[K cmp.Ordered, V any](kvs []KV[K, V]) string {
	if len(kvs) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(kvs) * 24)
	for i := range kvs {
		b.WriteString(fmt.Sprint(kvs[i].Key))
		b.WriteByte('\t')
		b.WriteString(fmt.Sprint(kvs[i].Value))
		b.WriteByte('\n')
	}
	return b.String()
}

// DecodeIMDKVs parses a dump written by a job back into text pairs.
func DecodeIMDKVs(raw string) []KV[string, string] {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	out := make([]KV[string, string], 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		out = append(out, KV[string, string]{
			Key:   parts[0],
			Value: parts[1],
		})
	}
	return out
}

func writeIMDToLocalFile[K cmp.Ordered, V any](dir string, runID string, name string, kvs []KV[K, V]) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	fname := filepath.Join(dir, fmt.Sprintf("imd-%v-%v.txt", runID, name))
	if err := os.WriteFile(fname, []byte(encodeIMDKVs(kvs)), 0o644); err != nil {
		return "", err
	}
	return fname, nil
}
