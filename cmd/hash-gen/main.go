package main

import (
	"fmt"
	"log"
	"os"

	"marketplace.backend/pkg/crypto"
)

var (
	printfFn       = fmt.Printf
	generateHashFn = generateHash
	fatalfFn       = log.Fatalf
)

// hash-gen prints the bcrypt hash for a password, handy for seeding
// admin accounts directly in the database.

func resolvePassword(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "change-me-immediately"
}

func generateHash(password string) (string, error) {
	return crypto.HashPassword(password)
}

func main() {
	password := resolvePassword(os.Args[1:])

	printfFn("Generating hash for password: %s\n", password)

	hash, err := generateHashFn(password)
	if err != nil {
		fatalfFn("Failed to hash password: %v", err)
	}

	printfFn("Bcrypt Hash: %s\n", hash)
}
