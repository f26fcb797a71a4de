package security

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
)

// EncryptString returns sha1(md5(salt) . md5(value)) over the hex digests.
// Stored passwords and session secret keys are derived with it, so the output
// must stay stable across releases.
func EncryptString(value, salt string) string {
	saltSum := md5.Sum([]byte(salt))
	valueSum := md5.Sum([]byte(value))
	sum := sha1.Sum([]byte(hex.EncodeToString(saltSum[:]) + hex.EncodeToString(valueSum[:])))
	return hex.EncodeToString(sum[:])
}
