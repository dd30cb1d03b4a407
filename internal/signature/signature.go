// Package signature derives the canonical, instance-detail-stripped
// identity of a violation's shape. The token it produces is the cache
// key for the violation knowledge graph: two violations with the same
// constraint, path, kind, and parameter content always map to the same
// token no matter which focus node triggered them or in what order the
// parameters were assembled.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/gcpdev/xshacl/internal/model"
)

// TokenDomain separates signature hashes from any other hash usage.
// The version suffix enables future algorithm migration.
const TokenDomain = "xshacl/signature/v1"

// tokenPrefix marks derived tokens so they are recognizable in logs and
// in the persisted graph.
const tokenPrefix = "sig_"

// Signature is the canonical identity of a violation shape. Params is
// compared by content; insertion order never influences the token.
type Signature struct {
	ConstraintID string              `json:"constraint_id" yaml:"constraint_id"`
	PropertyPath string              `json:"property_path,omitempty" yaml:"property_path,omitempty"`
	Type         model.ViolationType `json:"violation_type" yaml:"violation_type"`
	Params       model.Object        `json:"constraint_params,omitempty" yaml:"-"`
}

// FromViolation derives the signature of a concrete violation, dropping
// instance details (focus node, offending value, message).
func FromViolation(v *model.ConstraintViolation, params model.Object) Signature {
	return Signature{
		ConstraintID: v.ConstraintID,
		PropertyPath: v.PropertyPath,
		Type:         v.ViolationType,
		Params:       params,
	}
}

// Token computes the stable content-addressed token for sig.
//
// The signature fields are assembled into a canonical JSON object
// (RFC 8785: sorted keys, NFC strings), hashed with SHA-256 under
// TokenDomain, truncated to 128 bits, and rendered as "sig_<hex>".
// An absent property path renders as the empty string and absent params
// as the empty object, so they canonicalize identically every time.
//
// Returns *ValidationError if the parameter mapping is not
// canonicalizable.
func Token(sig Signature) (string, error) {
	params := sig.Params
	if params == nil {
		params = model.Object{}
	}
	obj := model.Object{
		"constraint_id":     model.String(sig.ConstraintID),
		"property_path":     model.String(sig.PropertyPath),
		"violation_type":    model.String(sig.Type),
		"constraint_params": params,
	}
	canonical, err := model.MarshalCanonical(obj)
	if err != nil {
		return "", &ValidationError{Field: "constraint_params", Err: err}
	}
	return hashWithDomain(TokenDomain, canonical), nil
}

// MustToken is like Token but panics on error. Use only in tests or when
// the signature is known to be valid.
func MustToken(sig Signature) string {
	token, err := Token(sig)
	if err != nil {
		panic(err)
	}
	return token
}

// hashWithDomain computes SHA-256 over domain + 0x00 + data and formats
// the first 128 bits as a prefixed hex token. The null separator
// prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	sum := h.Sum(nil)
	return tokenPrefix + hex.EncodeToString(sum[:16])
}

// ValidationError reports a signature that cannot be canonicalized,
// typically a parameter mapping holding an unsupported value.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid signature: %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
