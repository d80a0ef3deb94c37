package config

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
)

// Checksum returns a short, stable checksum of the generation parameters.
// The seed is left out; an instance is identified by checksum and seed together.
//
// It computes MD5 over the JSON encoding and returns the first 6 hex
// characters (equivalent to `md5sum | cut -c1-6`).
func Checksum(cfg *GeneratorConfig) (string, error) {
	if cfg == nil {
		return "", nil
	}

	b, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := md5.Sum(b)
	hexStr := hex.EncodeToString(sum[:])
	if len(hexStr) > 6 {
		hexStr = hexStr[:6]
	}
	return hexStr, nil
}
