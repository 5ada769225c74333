// Command adminhash reads an admin secret from stdin and prints the bcrypt
// hash to use as ADMIN_SECRET_HASH.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"whiteboard/internal/platform/middleware"
)

func main() {
	secret, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && secret == "" {
		fmt.Fprintf(os.Stderr, "read secret: %v\n", err)
		os.Exit(1)
	}
	hash, err := middleware.HashSecret(strings.TrimRight(secret, "\r\n"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash secret: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
