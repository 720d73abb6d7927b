package fungible

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	userKindPrefix        = "User"
	applicationKindPrefix = "Application"
)

var (
	// ErrMalformedAccountKey occurs when an encoded account-owner key does
	// not match the "Kind:identity" shape.
	ErrMalformedAccountKey = errors.New("malformed account key")

	// ErrUnknownOwnerKind occurs when the kind prefix of an account key is
	// neither "User" nor "Application".
	ErrUnknownOwnerKind = errors.New("unknown account owner kind")
)

// ChainID identifies one chain of the sharded ledger.
type ChainID string

// OwnerKind discriminates the two kinds of account owner.
type OwnerKind uint8

const (
	// OwnerUser marks an account owned by a user identity.
	OwnerUser OwnerKind = iota
	// OwnerApplication marks an account owned by an application.
	OwnerApplication
)

// AccountOwner identifies who controls a balance slot: a user or an
// application. Values are comparable and usable as map keys.
type AccountOwner struct {
	Kind     OwnerKind
	Identity string
}

// UserOwner builds the owner value for a user identity.
func UserOwner(identity string) AccountOwner {
	return AccountOwner{Kind: OwnerUser, Identity: identity}
}

// ApplicationOwner builds the owner value for an application identity.
func ApplicationOwner(identity string) AccountOwner {
	return AccountOwner{Kind: OwnerApplication, Identity: identity}
}

// ParseAccountOwner decodes the canonical "User:<identity>" /
// "Application:<identity>" key form. The identity part must be non-empty
// hex text of whole bytes.
func ParseAccountOwner(key string) (AccountOwner, error) {
	kind, identity, found := strings.Cut(key, ":")
	if !found {
		return AccountOwner{}, fmt.Errorf("%w: %q has no kind separator", ErrMalformedAccountKey, key)
	}
	if err := validateIdentity(identity); err != nil {
		return AccountOwner{}, err
	}
	switch kind {
	case userKindPrefix:
		return UserOwner(identity), nil
	case applicationKindPrefix:
		return ApplicationOwner(identity), nil
	default:
		return AccountOwner{}, fmt.Errorf("%w: %q", ErrUnknownOwnerKind, kind)
	}
}

func validateIdentity(identity string) error {
	if identity == "" {
		return fmt.Errorf("%w: empty identity", ErrMalformedAccountKey)
	}
	if _, err := hex.DecodeString(identity); err != nil {
		return fmt.Errorf("%w: identity %q is not hex", ErrMalformedAccountKey, identity)
	}
	return nil
}

// String renders the canonical key form. ParseAccountOwner(o.String())
// yields o back for any owner constructed from a valid identity.
func (o AccountOwner) String() string {
	switch o.Kind {
	case OwnerApplication:
		return applicationKindPrefix + ":" + o.Identity
	default:
		return userKindPrefix + ":" + o.Identity
	}
}

// Compare orders owners by kind then identity. The order carries no
// meaning beyond deterministic iteration.
func (o AccountOwner) Compare(other AccountOwner) int {
	if o.Kind != other.Kind {
		if o.Kind < other.Kind {
			return -1
		}
		return 1
	}
	return strings.Compare(o.Identity, other.Identity)
}

// MarshalText makes owners usable as JSON object keys in their canonical
// encoded form.
func (o AccountOwner) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *AccountOwner) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountOwner(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Account identifies one balance slot: an owner on a specific chain.
type Account struct {
	ChainID ChainID      `json:"chain_id"`
	Owner   AccountOwner `json:"owner"`
}

// String renders the account for logs.
func (a Account) String() string {
	return fmt.Sprintf("%s@%s", a.Owner, a.ChainID)
}
