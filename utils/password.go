package utils

import "golang.org/x/crypto/bcrypt"

// passwordCost is lowered by tests through SetPasswordCost.
var passwordCost = bcrypt.DefaultCost

// SetPasswordCost changes the bcrypt cost for newly hashed passwords.
func SetPasswordCost(cost int) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	passwordCost = cost
}

// HashPassword returns the bcrypt hash of password. bcrypt rejects inputs
// longer than 72 bytes.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
