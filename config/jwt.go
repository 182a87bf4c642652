package config

import (
	"log"
	"os"
)

// JWTSecret is loaded once at startup; middleware and controllers read it
// from here instead of hitting the environment per request.
var JWTSecret []byte

func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not configured")
	}
	JWTSecret = []byte(secret)
}
