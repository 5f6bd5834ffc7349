package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/ModChain/p256"
	"github.com/ModChain/p256/ecckd"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:  "p256",
		Usage: "debugging CLI tool for P-256 keys and ECDSA signatures",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log at debug level",
			},
		},
		Before: func(cctx *cli.Context) error {
			level := slog.LevelInfo
			if cctx.Bool("verbose") {
				level = slog.LevelDebug
			}
			h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(h))
			return nil
		},
	}
	privKeyFlag := &cli.StringFlag{
		Name:     "private-key",
		Usage:    "private key as hex, multibase, JWK, or hex encoded SEC 1 DER",
		EnvVars:  []string{"P256_PRIVATE_KEY"},
		Required: true,
	}
	app.Commands = []*cli.Command{
		&cli.Command{
			Name:  "generate",
			Usage: "create a new private key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "encoding",
					Usage: "output encoding: multibase, hex, sec1, or jwk",
					Value: "multibase",
				},
			},
			Action: runGenerate,
		},
		&cli.Command{
			Name:  "pubkey",
			Usage: "print the public key of a private key",
			Flags: []cli.Flag{
				privKeyFlag,
				&cli.StringFlag{
					Name:    "format",
					Usage:   "compressed, uncompressed, der, der-compressed, multibase, did, or jwk",
					EnvVars: []string{"P256_FORMAT"},
					Value:   p256.FormatCompressed.String(),
				},
			},
			Action: runPubKey,
		},
		&cli.Command{
			Name:      "sign",
			Usage:     "sign a message with SHA-256 and deterministic ECDSA",
			ArgsUsage: "<message>",
			Flags: []cli.Flag{
				privKeyFlag,
				&cli.BoolFlag{
					Name:  "raw",
					Usage: "output the 64-byte R || S form instead of DER",
				},
				&cli.BoolFlag{
					Name:  "low-s",
					Usage: "normalize S to the lower half of the group order",
				},
			},
			Action: runSign,
		},
		&cli.Command{
			Name:      "verify",
			Usage:     "verify a hex encoded DER or raw signature over a message",
			ArgsUsage: "<message> <signature>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "public-key",
					Usage:    "public key as hex SEC1 or DER, multibase, did:key, or JWK",
					Required: true,
				},
			},
			Action: runVerify,
		},
		&cli.Command{
			Name:  "derive",
			Usage: "derive a SLIP-0010 extended key from a seed",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "seed",
					Usage:    "hex encoded seed of 16 to 64 bytes",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "path",
					Usage: "derivation path",
					Value: "m",
				},
				&cli.BoolFlag{
					Name:  "public",
					Usage: "print the extended public key",
				},
			},
			Action: runDerive,
		},
	}
	app.RunAndExitOnError()
}

func runGenerate(cctx *cli.Context) error {
	priv, err := p256.GeneratePrivateKey()
	if err != nil {
		return err
	}
	defer priv.Zero()

	out, err := encodePrivateKey(priv, cctx.String("encoding"))
	if err != nil {
		return err
	}
	slog.Debug("generated private key", "did", priv.PubKey().DIDKey())
	fmt.Println(out)
	return nil
}

func runPubKey(cctx *cli.Context) error {
	priv, err := parsePrivateKey(cctx.String("private-key"))
	if err != nil {
		return err
	}
	defer priv.Zero()

	out, err := encodePublicKey(priv.PubKey(), cctx.String("format"))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runSign(cctx *cli.Context) error {
	if cctx.Args().Len() != 1 {
		return fmt.Errorf("expected a single message argument")
	}
	priv, err := parsePrivateKey(cctx.String("private-key"))
	if err != nil {
		return err
	}
	defer priv.Zero()

	sig, err := p256.SignMessage(priv, []byte(cctx.Args().First()))
	if err != nil {
		return err
	}
	if cctx.Bool("low-s") {
		sig = sig.Normalize()
	}
	if cctx.Bool("raw") {
		fmt.Println(hex.EncodeToString(sig.SerializeRaw()))
	} else {
		fmt.Println(hex.EncodeToString(sig.Serialize()))
	}
	return nil
}

func runVerify(cctx *cli.Context) error {
	if cctx.Args().Len() != 2 {
		return fmt.Errorf("expected message and signature arguments")
	}
	pub, err := parsePublicKey(cctx.String("public-key"))
	if err != nil {
		return err
	}
	sig, err := parseSignature(cctx.Args().Get(1))
	if err != nil {
		return err
	}

	if !p256.VerifyMessage(pub, []byte(cctx.Args().First()), sig) {
		return fmt.Errorf("invalid signature")
	}
	slog.Info("valid signature", "did", pub.DIDKey())
	return nil
}

func runDerive(cctx *cli.Context) error {
	seed, err := hex.DecodeString(cctx.String("seed"))
	if err != nil {
		return fmt.Errorf("invalid seed: %w", err)
	}
	master, err := ecckd.FromSeed(seed)
	if err != nil {
		return err
	}
	ek, err := master.DerivePath(cctx.String("path"))
	if err != nil {
		return err
	}
	if cctx.Bool("public") {
		ek, err = ek.Public()
		if err != nil {
			return err
		}
	}
	slog.Debug("derived key", "path", cctx.String("path"), "depth", ek.Depth,
		"fingerprint", hex.EncodeToString(ek.Fingerprint[:]))
	fmt.Println(ek.String())
	return nil
}
