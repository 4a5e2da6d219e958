package main

import (
	"fmt"
	"os"

	"github.com/saturnino-fabrica-de-software/facegate/internal/webhook"
)

// sign_webhook.go - Utility to compute the X-Facegate-Signature value for
// a payload, for receivers debugging their signature checks
//
// Usage:
//   go run scripts/sign_webhook.go <secret> <payload-file>
//
// Example:
//   go run scripts/sign_webhook.go 4f2a9c1b delivery.json
//
// Output:
//   sha256=8b3e1f...

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run scripts/sign_webhook.go <secret> <payload-file>")
		fmt.Println("")
		fmt.Println("Example:")
		fmt.Println("  go run scripts/sign_webhook.go 4f2a9c1b delivery.json")
		os.Exit(1)
	}

	secret := os.Args[1]
	payload, err := os.ReadFile(os.Args[2])
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	fmt.Printf("Payload:   %s (%d bytes)\n", os.Args[2], len(payload))
	fmt.Printf("Signature: %s\n", webhook.Sign(secret, payload))
}
