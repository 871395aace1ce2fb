package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes plain with the given cost. Costs outside
// bcrypt's valid range fall back to bcrypt.DefaultCost so a
// misconfigured BCRYPT_COST cannot silently weaken stored hashes.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the bcrypt hash. The
// comparison is constant-time inside bcrypt; any error, including a
// malformed hash, counts as a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
