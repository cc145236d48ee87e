package jwt

// MinSecretKeyLen is the minimum length for HS256 secret key.
const MinSecretKeyLen = 32
