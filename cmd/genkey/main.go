// Command genkey prints a fresh random secret in the .env format the relay
// reads, for provisioning WEBHOOK_SECRET or API_KEY.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
)

func main() {
	name := flag.String("name", "WEBHOOK_SECRET", "environment variable name to print")
	length := flag.Int("length", 32, "secret length in bytes")
	flag.Parse()

	buf := make([]byte, *length)
	if _, err := rand.Read(buf); err != nil {
		fmt.Fprintf(os.Stderr, "genkey: %v\n", err)
		os.Exit(1)
	}

	secret := hex.EncodeToString(buf)
	fmt.Printf("add this line to your .env file:\n%s=%s\n", *name, secret)
}
