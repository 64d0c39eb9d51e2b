package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/ety001/cryptotoken-converter/internal/keys"
)

func main() {
	kingpinApp := kingpin.New("converter-keygen", "Generates a value for ENCRYPT_KEY")
	export := kingpinApp.Flag("export", "Print as an ENCRYPT_KEY= line").Bool()
	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	key, err := keys.GenerateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate key: %v\n", err)
		os.Exit(1)
	}

	if *export {
		fmt.Printf("ENCRYPT_KEY=%s\n", key)
		return
	}
	fmt.Println(key)
}
