package config

import (
	"fmt"
	"os"

	"github.com/ety001/cryptotoken-converter/internal/models"
	"gopkg.in/yaml.v3"
)

// LoadHandlerFile reads per-handler settings from a YAML file.
// An empty path yields defaults only, with an empty COIND_RPC map.
func LoadHandlerFile(path string) (*models.HandlerFile, error) {
	var file models.HandlerFile
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read handler file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse handler file: %w", err)
		}
	}

	models.NormalizeHandlerFile(&file)

	for i, w := range file.Wallets {
		if w.Handler == "" || w.Account == "" {
			return nil, fmt.Errorf("wallet %d: handler and account are required", i)
		}
		if w.MinBalance.IsNegative() {
			return nil, fmt.Errorf("wallet %d: min_balance must not be negative", i)
		}
	}

	return &file, nil
}
