package util

import (
	"os"
	"sync"
)

var (
	jwtSecret     = getEnv("JWTSECRET", "")
	jwtSecretByte = []byte(jwtSecret)
	jwtMutex      sync.RWMutex
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// SetJWTSecret allows tests or runtime code to update the JWT secret used for
// token verification. This function is thread-safe and can be called concurrently.
func SetJWTSecret(secret string) {
	jwtMutex.Lock()
	defer jwtMutex.Unlock()
	jwtSecret = secret
	jwtSecretByte = []byte(secret)
}

// GetJWTSecretByte returns a copy of the current JWT secret bytes in a thread-safe manner.
func GetJWTSecretByte() []byte {
	jwtMutex.RLock()
	defer jwtMutex.RUnlock()
	return append([]byte(nil), jwtSecretByte...)
}
