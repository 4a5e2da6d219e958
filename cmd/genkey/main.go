package main

import (
	"fmt"
	"os"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// Prints a fresh deployment key. Put KEY in the client's hands and the
// same value in the server's API_KEY.
func main() {
	env := domain.EnvLive
	if len(os.Args) > 1 && os.Args[1] == "test" {
		env = domain.EnvTest
	}

	key, hash, prefix, err := domain.GenerateAPIKey(env)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Printf("KEY=%s\nHASH=%s\nPREFIX=%s\n", key, hash, prefix)
}
