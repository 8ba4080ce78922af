package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// calc_signature.go - Utility to calculate the webhook callback signature
//
// Usage:
//   go run scripts/calc_signature.go <secret> < payload.json
//
// Example:
//   echo -n '{"type":"session.completed"}' | go run scripts/calc_signature.go my-secret
//
// Output:
//   sha256=4f2c...
//
// Useful for verifying X-Liveness-Signature headers when debugging a
// callback consumer.

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/calc_signature.go <secret> < payload.json")
		os.Exit(1)
	}

	secret := os.Args[1]

	payload, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read payload: %v\n", err)
		os.Exit(1)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	fmt.Printf("sha256=%s\n", hex.EncodeToString(mac.Sum(nil)))
}
