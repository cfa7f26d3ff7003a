package main

import (
	"flag"
	"fmt"

	"clinic-booking/internal/auth"

	zlog "github.com/rs/zerolog/log"
)

var pass = flag.String("pass", "", "Password to encrypt")

func main() {
	flag.Parse()
	if *pass == "" {
		zlog.Fatal().Msg("no password was given")
	}

	passHash, err := auth.EncryptPassword(*pass)
	if err != nil {
		zlog.Fatal().Err(err).Msg("could not encrypt the password")
	}

	fmt.Println(passHash)
}
