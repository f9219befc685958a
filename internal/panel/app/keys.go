package app

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"

	"github.com/brightforge/sitepanel/pkg/idx"
	"github.com/brightforge/sitepanel/pkg/jwtx"
)

// loadOrGenerateSigningKey reads the Ed25519 signing key from disk, creating
// one on first boot so tokens survive restarts.
func loadOrGenerateSigningKey(path string, logger *slog.Logger) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		priv, err := jwtx.ParsePrivateKeyPEM(data)
		if err != nil {
			return nil, fmt.Errorf("invalid signing key at %s: %w", path, err)
		}
		return priv, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}

	pemData, err := jwtx.MarshalPrivateKeyPEM(priv)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, pemData, 0o600); err != nil {
		return nil, fmt.Errorf("persist signing key: %w", err)
	}

	logger.Info("generated new signing key", "path", path)
	return priv, nil
}

// initAuthKeys builds the signer/verifier pair used across the service.
func initAuthKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, jwtx.Verifier, error) {
	priv, err := loadOrGenerateSigningKey(cfg.SigningKeyFile, logger)
	if err != nil {
		return nil, nil, err
	}

	signer, err := jwtx.NewSignerEdDSA(idx.New().String(), priv)
	if err != nil {
		return nil, nil, err
	}

	pub := priv.Public().(ed25519.PublicKey)
	verifier := jwtx.NewVerifierEdDSA(pub, cfg.Issuer, []string{cfg.Audience})

	return signer, verifier, nil
}
