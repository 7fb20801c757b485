package payload

// Checksums are written as "algorithm:hexvalue", e.g. "sha256:c0ffee...".

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// ChecksumAlgorithm represents supported checksum algorithms
type ChecksumAlgorithm int

const (
	ChecksumSHA256 ChecksumAlgorithm = iota
	ChecksumSHA512
)

func (c ChecksumAlgorithm) String() string {
	switch c {
	case ChecksumSHA256:
		return "sha256"
	case ChecksumSHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

func (c ChecksumAlgorithm) newHash() hash.Hash {
	if c == ChecksumSHA512 {
		return sha512.New()
	}
	return sha256.New()
}

// ParseChecksum splits a checksum string into its algorithm and hex value.
// Unprefixed values are accepted when their length identifies the algorithm.
func ParseChecksum(s string) (ChecksumAlgorithm, string, error) {
	algo, value, found := strings.Cut(s, ":")
	if !found {
		switch len(s) {
		case sha256.Size * 2:
			return ChecksumSHA256, s, nil
		case sha512.Size * 2:
			return ChecksumSHA512, s, nil
		default:
			return ChecksumSHA256, "", fmt.Errorf("invalid checksum format: %s", s)
		}
	}

	switch algo {
	case "sha256":
		return ChecksumSHA256, value, nil
	case "sha512":
		return ChecksumSHA512, value, nil
	default:
		return ChecksumSHA256, "", fmt.Errorf("unknown checksum algorithm: %s", algo)
	}
}

// CalculateChecksum calculates checksum with prefix
func CalculateChecksum(data []byte, algorithm ChecksumAlgorithm) string {
	h := algorithm.newHash()
	h.Write(data)
	return algorithm.String() + ":" + hex.EncodeToString(h.Sum(nil))
}

// VerifyChecksum verifies data against a checksum string
func VerifyChecksum(data []byte, checksum string) (bool, error) {
	algo, expected, err := ParseChecksum(checksum)
	if err != nil {
		return false, err
	}
	_, actual, _ := strings.Cut(CalculateChecksum(data, algo), ":")
	return strings.EqualFold(actual, expected), nil
}
