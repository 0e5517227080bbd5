package commands

import (
	"context"
	"fmt"

	"github.com/sealbox/sealbox/internal/app"
	"github.com/sealbox/sealbox/internal/config"
	cryptoDomain "github.com/sealbox/sealbox/internal/crypto/domain"
)

// RunKeygen generates a fresh key pair for each KEM leg of the given suite
// and writes them as four base64 key files:
//
//	<prefix>.classical.key / <prefix>.classical.pub
//	<prefix>.pqc.key       / <prefix>.pqc.pub
//
// An empty suiteID uses the active suite. Private key bytes are zeroed after
// writing.
func RunKeygen(ctx context.Context, suiteID, outPrefix string, stdio IOTuple) error {
	container := app.NewContainer(config.Load())
	defer closeContainer(container, container.Logger())

	settings, err := container.Config().CryptoSettings()
	if err != nil {
		return err
	}

	if suiteID == "" {
		suiteID = string(settings.ActiveSuiteID)
	}
	def, ok := settings.Suites[cryptoDomain.SuiteID(suiteID)]
	if !ok {
		return fmt.Errorf("suite %s is not defined", suiteID)
	}
	if def.IsExternal() {
		return fmt.Errorf("suite %s is external and has no local key pairs", suiteID)
	}

	provider := container.PrimitiveProvider()
	classical, err := provider.KEM(def.ClassicalKEM)
	if err != nil {
		return err
	}
	pqc, err := provider.KEM(def.PQCKEM)
	if err != nil {
		return err
	}

	classicalPK, classicalSK, err := classical.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("failed to generate classical key pair: %w", err)
	}
	pqcPK, pqcSK, err := pqc.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("failed to generate pqc key pair: %w", err)
	}

	files := []struct {
		suffix  string
		marshal func() ([]byte, error)
		secret  bool
	}{
		{classicalPublicSuffix, classicalPK.MarshalBinary, false},
		{classicalPrivateSuffix, classicalSK.MarshalBinary, true},
		{pqcPublicSuffix, pqcPK.MarshalBinary, false},
		{pqcPrivateSuffix, pqcSK.MarshalBinary, true},
	}

	for _, f := range files {
		key, err := f.marshal()
		if err != nil {
			return fmt.Errorf("failed to serialize key: %w", err)
		}

		err = writeKeyFile(outPrefix+f.suffix, key)
		if f.secret {
			cryptoDomain.Zero(key)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(stdio.Writer, "wrote %s\n", outPrefix+f.suffix)
	}

	fmt.Fprintf(stdio.Writer, "suite: %s\n", suiteID)
	return nil
}
