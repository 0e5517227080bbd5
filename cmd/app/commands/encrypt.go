package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/sealbox/sealbox/internal/app"
	"github.com/sealbox/sealbox/internal/config"
)

// bundleExtension is appended to encrypted output file names.
const bundleExtension = ".sbx"

// batchConcurrency bounds how many files are processed in parallel. Argon2id
// runs once per file, so unbounded parallelism would multiply its memory cost.
const batchConcurrency = 4

// RunEncrypt encrypts each input file under the active suite and writes the
// bundle next to it (or under outDir) with the .sbx extension. Files are
// processed concurrently; the first failure cancels the rest.
func RunEncrypt(ctx context.Context, inputs []string, outDir, passphraseEnv, keyPrefix string, stdio IOTuple) error {
	if len(inputs) == 0 {
		return fmt.Errorf("at least one input file is required")
	}

	container := app.NewContainer(config.Load())
	defer closeContainer(container, container.Logger())

	useCase, err := container.CryptoUseCase(ctx)
	if err != nil {
		return err
	}

	km, err := resolveKeyMaterial(passphraseEnv, keyPrefix, false)
	if err != nil {
		return err
	}
	defer km.Zero()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, input := range inputs {
		g.Go(func() error {
			plaintext, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", input, err)
			}

			raw, err := useCase.Encrypt(gctx, plaintext, km)
			if err != nil {
				return fmt.Errorf("failed to encrypt %s: %w", input, err)
			}

			output := outputPath(input, outDir, bundleExtension)
			if err := os.WriteFile(output, raw, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintf(stdio.Writer, "%s -> %s\n", input, output)
			return nil
		})
	}

	return g.Wait()
}

// outputPath places the output next to the input, or under outDir when given,
// with ext appended.
func outputPath(input, outDir, ext string) string {
	if outDir == "" {
		return input + ext
	}
	return filepath.Join(outDir, filepath.Base(input)+ext)
}
