package dpop

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/golang-jwt/jwt/v5"
)

// signingMethodES256K implements jwt.SigningMethod for the ES256K algorithm
// named in spec.md §4.5 step 5. golang-jwt ships ECDSA support only for the
// standard-library elliptic curves (P-256/384/521); secp256k1 needs the
// dedicated decred curve implementation, the same library
// BrettM86-coves pulls in for atproto's secp256k1-keyed DIDs.
type signingMethodES256K struct{}

// SigningMethodES256K is registered with golang-jwt under the "ES256K" name
// so jwt.Parse's algorithm dispatch works the same way it does for the
// library's built-in methods.
var SigningMethodES256K = &signingMethodES256K{}

func init() {
	jwt.RegisterSigningMethod(SigningMethodES256K.Alg(), func() jwt.SigningMethod {
		return SigningMethodES256K
	})
}

func (m *signingMethodES256K) Alg() string {
	return "ES256K"
}

func (m *signingMethodES256K) Verify(signingString string, sig []byte, key any) error {
	pub, ok := key.(*secp256k1.PublicKey)
	if !ok {
		return fmt.Errorf("ES256K verify: expected *secp256k1.PublicKey, got %T", key)
	}
	if len(sig) != 64 {
		return fmt.Errorf("ES256K verify: signature must be 64 bytes, got %d", len(sig))
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		return errors.New("ES256K verify: signature r overflows scalar field")
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow {
		return errors.New("ES256K verify: signature s overflows scalar field")
	}

	hash := sha256.Sum256([]byte(signingString))
	signature := dcecdsa.NewSignature(&r, &s)
	if !signature.Verify(hash[:], pub) {
		return jwt.ErrSignatureInvalid
	}
	return nil
}

func (m *signingMethodES256K) Sign(signingString string, key any) ([]byte, error) {
	return nil, errors.New("ES256K signing is not implemented; this verifier only validates DPoP proofs")
}
