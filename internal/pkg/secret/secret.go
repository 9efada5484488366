package secret

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("secret hashing failed")
	ErrMismatch      = errors.New("secret mismatch")
	ErrInvalidSecret = errors.New("invalid secret")
)

const DefaultCost = bcrypt.DefaultCost

// Hash はトリガー用シークレットを bcrypt でハッシュ化する（SWEEP_SECRET_HASH の生成用）
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrInvalidSecret
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}

	return string(hashedBytes), nil
}

func Compare(hashed, plain string) error {
	if hashed == "" || plain == "" {
		return ErrInvalidSecret
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}

	return nil
}
