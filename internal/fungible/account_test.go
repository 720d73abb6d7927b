package fungible

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestAccountOwnerRoundTrip(t *testing.T) {
	owners := []AccountOwner{
		UserOwner("e814a7bdae091daf4a110ef5340396998e538c47c6e7d101027a225523985316"),
		ApplicationOwner("0d677b87f1bc6e12442f98c06b9c105fbebf6bb21d885739e23c315956c7d7f3"),
	}
	for _, owner := range owners {
		parsed, err := ParseAccountOwner(owner.String())
		if err != nil {
			t.Fatalf("parse %q: %v", owner.String(), err)
		}
		if parsed != owner {
			t.Fatalf("round trip changed owner: %v != %v", parsed, owner)
		}
	}
}

func TestParseAccountOwnerEncodeIsIdentity(t *testing.T) {
	keys := []string{
		"User:ab",
		"Application:00ff",
		"User:E814A7BD", // uppercase hex survives unchanged
	}
	for _, key := range keys {
		owner, err := ParseAccountOwner(key)
		if err != nil {
			t.Fatalf("parse %q: %v", key, err)
		}
		if owner.String() != key {
			t.Fatalf("encode(decode(%q)) = %q", key, owner.String())
		}
	}
}

func TestParseAccountOwnerMissingSeparator(t *testing.T) {
	if _, err := ParseAccountOwner("Userab12"); !errors.Is(err, ErrMalformedAccountKey) {
		t.Fatalf("expected malformed key error, got %v", err)
	}
}

func TestParseAccountOwnerUnknownKind(t *testing.T) {
	if _, err := ParseAccountOwner("Robot:ab12"); !errors.Is(err, ErrUnknownOwnerKind) {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
}

func TestParseAccountOwnerBadIdentity(t *testing.T) {
	for _, key := range []string{"User:", "User:zz", "Application:abc"} {
		if _, err := ParseAccountOwner(key); !errors.Is(err, ErrMalformedAccountKey) {
			t.Fatalf("expected malformed key error for %q, got %v", key, err)
		}
	}
}

func TestAccountOwnerOrdering(t *testing.T) {
	user := UserOwner("aa")
	app := ApplicationOwner("aa")
	if user.Compare(app) >= 0 {
		t.Fatalf("users should order before applications")
	}
	if UserOwner("aa").Compare(UserOwner("bb")) >= 0 {
		t.Fatalf("identities should order lexicographically")
	}
	if user.Compare(user) != 0 {
		t.Fatalf("owner should compare equal to itself")
	}
}

func TestAccountOwnerAsJSONMapKey(t *testing.T) {
	balances := map[AccountOwner]Amount{
		UserOwner("ab12"): MustAmount(7),
	}
	data, err := json.Marshal(balances)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"User:ab12"`) {
		t.Fatalf("unexpected encoding: %s", data)
	}

	var decoded map[AccountOwner]Amount
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded[UserOwner("ab12")] != MustAmount(7) {
		t.Fatalf("unexpected decoded balances: %v", decoded)
	}
}

func TestOwnerFromPublicKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	owner := OwnerFromPublicKey(pub)
	if owner.Kind != OwnerUser {
		t.Fatalf("expected a user owner")
	}
	if len(owner.Identity) != 64 {
		t.Fatalf("expected 32-byte hex identity, got %q", owner.Identity)
	}
	if _, err := ParseAccountOwner(owner.String()); err != nil {
		t.Fatalf("derived owner key should parse: %v", err)
	}
	if OwnerFromPublicKey(pub) != owner {
		t.Fatalf("derivation should be deterministic")
	}
}
