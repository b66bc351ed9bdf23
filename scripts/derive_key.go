// derive_key.go prints the pubkey and sighash-all lock args for a
// hex-encoded private key file, so an operator can check which lock a
// bencher_private_key or miner.private_key will spend from before
// pointing it at a live network.
// Usage: go run scripts/derive_key.go <keyfile>
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/ckb-tps-bench/bench/internal/account"
	"github.com/ckb-tps-bench/bench/pkg/crypto"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <keyfile>")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	keyHex := strings.TrimPrefix(strings.TrimSpace(string(data)), "0x")
	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	key, err := crypto.PrivateKeyFromBytes(keyBytes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	pub := key.PublicKey()
	digest := crypto.Hash(pub)

	fmt.Printf("pubkey=%s\n", hex.EncodeToString(pub))
	fmt.Printf("lock_arg=0x%s\n", hex.EncodeToString(digest[:account.LockArgSize]))
}
