package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sealbox/sealbox/internal/app"
	"github.com/sealbox/sealbox/internal/config"
)

// RunDecrypt decrypts each input file and writes the recovered plaintext next
// to it (or under outDir). An input named *.sbx loses the extension;
// anything else gains .out so the input is never overwritten.
func RunDecrypt(ctx context.Context, inputs []string, outDir, passphraseEnv, keyPrefix string, stdio IOTuple) error {
	if len(inputs) == 0 {
		return fmt.Errorf("at least one input file is required")
	}

	container := app.NewContainer(config.Load())
	defer closeContainer(container, container.Logger())

	useCase, err := container.CryptoUseCase(ctx)
	if err != nil {
		return err
	}

	km, err := resolveKeyMaterial(passphraseEnv, keyPrefix, true)
	if err != nil {
		return err
	}
	defer km.Zero()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, input := range inputs {
		g.Go(func() error {
			encrypted, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", input, err)
			}

			plaintext, err := useCase.Decrypt(gctx, encrypted, km)
			if err != nil {
				return fmt.Errorf("failed to decrypt %s: %w", input, err)
			}

			output := decryptOutputPath(input, outDir)
			if err := os.WriteFile(output, plaintext, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintf(stdio.Writer, "%s -> %s\n", input, output)
			return nil
		})
	}

	return g.Wait()
}

func decryptOutputPath(input, outDir string) string {
	name := filepath.Base(input)
	if strings.HasSuffix(name, bundleExtension) {
		name = strings.TrimSuffix(name, bundleExtension)
	} else {
		name += ".out"
	}

	if outDir == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	return filepath.Join(outDir, name)
}
