package encrypter

// Encrypter hashes and verifies shared secrets.
// Implementations are safe for concurrent use.
type Encrypter interface {
	HashSecret(secret string) (string, error)
	VerifySecret(secret, hash string) bool
}

type implEncrypter struct{}

// New returns a bcrypt backed Encrypter.
func New() Encrypter {
	return &implEncrypter{}
}
