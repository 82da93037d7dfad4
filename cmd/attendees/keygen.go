package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	meetup "github.com/meetup-tools/attendee-sync"
)

var runKeygen = &cli.Command{
	Name:  "keygen",
	Usage: "generate an rsa signing key pair for oauth client registration",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "out",
			Usage: "path the private key is written to",
			Value: "meetup-signing-key.pem",
		},
		&cli.StringFlag{
			Name:  "kid",
			Usage: "key id embedded in the printed public jwk",
		},
	},
	Action: func(cmd *cli.Context) error {
		key, err := meetup.GenerateSigningKey()
		if err != nil {
			return err
		}

		privPEM, err := meetup.EncodePrivateKeyPEM(key)
		if err != nil {
			return err
		}

		out := cmd.String("out")
		if err := os.WriteFile(out, privPEM, 0o600); err != nil {
			return err
		}

		pubPEM, err := meetup.EncodePublicKeyPEM(key)
		if err != nil {
			return err
		}

		fmt.Printf("private key written to %s\n\n", out)
		fmt.Println("public key to register with the platform:")
		fmt.Println(string(pubPEM))

		if kid := cmd.String("kid"); kid != "" {
			pub, err := meetup.PublicJWK(key, kid)
			if err != nil {
				return err
			}

			b, err := json.Marshal(pub)
			if err != nil {
				return err
			}

			fmt.Println("public jwk:")
			fmt.Println(string(b))
		}

		return nil
	},
}
