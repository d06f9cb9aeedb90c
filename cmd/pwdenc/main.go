package main

import (
	"fmt"
	"io"
	"os"

	"dbexp/pkg"
)

var (
	Version   string
	BuildTime string
	BuildBy   string
)

// Prints the pwd_enc value for a database ini, using the key in DBEXP_AES_KEY.
func main() {
	args := os.Args
	if len(args) < 2 {
		fmt.Println("dbexp-pwdenc [password]")
		fmt.Printf("Key is read from %s\n", pkg.AesKeyEnv)
		printInfo()
		os.Exit(1)
	}
	if err := encrypt(os.Stdout, os.Getenv(pkg.AesKeyEnv), args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		printInfo()
		os.Exit(1)
	}
}

func encrypt(w io.Writer, key string, password string) error {
	if key == "" {
		return fmt.Errorf("%s is empty", pkg.AesKeyEnv)
	}
	c, err := pkg.NewAes([]byte(key), nil)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "pwd_enc = %s\n", c.EncAsHex(password))
	return err
}

func printInfo() {
	fmt.Println("Version:", Version)
	fmt.Println("BuildTime:", BuildTime)
	fmt.Println("BuildBy:", BuildBy)
}
