package fungible

import (
	"crypto/ed25519"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// OwnerFromPublicKey derives the user owner controlled by an ed25519 key
// pair. The identity is the hex form of the blake2b-256 digest of the
// public key, so it is always a valid account-key identity.
func OwnerFromPublicKey(pub ed25519.PublicKey) AccountOwner {
	digest := blake2b.Sum256(pub)
	return UserOwner(hex.EncodeToString(digest[:]))
}
