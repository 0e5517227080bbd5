package commands

import (
	"fmt"
	"os"

	"github.com/sealbox/sealbox/internal/app"
	"github.com/sealbox/sealbox/internal/config"
	cryptoDomain "github.com/sealbox/sealbox/internal/crypto/domain"
	cryptoService "github.com/sealbox/sealbox/internal/crypto/service"
)

// RunHash prints the content digest of each input file in the familiar
// "<digest>  <file>" format. The algorithm flag overrides the configured one.
func RunHash(inputs []string, algorithm string, stdio IOTuple) error {
	if len(inputs) == 0 {
		return fmt.Errorf("at least one input file is required")
	}

	container := app.NewContainer(config.Load())
	defer closeContainer(container, container.Logger())

	hashService := container.HashService()
	if algorithm != "" {
		hashService = cryptoService.NewHashService(
			cryptoDomain.HashName(algorithm),
			container.Logger(),
		)
	}

	for _, input := range inputs {
		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", input, err)
		}
		fmt.Fprintf(stdio.Writer, "%s  %s\n", hashService.Hash(data), input)
	}

	fmt.Fprintf(stdio.Writer, "# algorithm: %s\n", hashService.Algorithm())
	return nil
}
