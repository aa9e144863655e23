package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key names a cached value of the given kind. parts identify the subject,
// e.g. a cargo binary's resolved path, size and mtime for "cargo-version",
// so replacing the binary yields a new key instead of a stale hit.
func Key(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + digest(data)
}

// digest is the hex SHA-256 of data; FileCache also uses it to name files.
func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
