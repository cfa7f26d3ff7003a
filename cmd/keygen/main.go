package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"os"
	"path/filepath"

	zlog "github.com/rs/zerolog/log"
)

var (
	dir  = flag.String("dir", "", "Directory where the key will be stored")
	bits = flag.Int("bits", 2048, "Size of the RSA key")
)

// writePEM stores the key PKCS1 encoded, the format the configuration loader reads.
func writePEM(filename string, privateKey *rsa.PrivateKey) error {
	pemFile, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	pemKey := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}
	if err = pem.Encode(pemFile, pemKey); err != nil {
		_ = pemFile.Close()
		return err
	}
	return pemFile.Close()
}

func main() {
	flag.Parse()
	if *dir == "" {
		zlog.Fatal().Msg("no directory was given")
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, *bits)
	if err != nil {
		zlog.Fatal().Err(err).Msg("could not generate the key")
	}

	filename := filepath.Join(*dir, "private.pem")
	if err = writePEM(filename, privateKey); err != nil {
		zlog.Fatal().Err(err).Msg("could not write the key")
	}
	zlog.Info().Str("file", filename).Msg("private key generated")
}
