package plans

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlSource struct {
	path string
}

// NewYAMLFileSource returns a Source that loads plan definitions from a
// YAML file. The file holds a top-level `plans` list; tiers and price
// IDs are validated by the catalog after loading.
//
// Example:
//
//	plans:
//	  - tier: premium
//	    name: Premium Core
//	    monthly_price: {amount: 12499, currency: USD}
//	    stripe_price_id: {monthly: price_abc, annual: price_def}
func NewYAMLFileSource(path string) Source {
	return &yamlSource{path: path}
}

type yamlCatalogFile struct {
	Plans []Plan `yaml:"plans"`
}

// Load reads and decodes the configured file on every call.
func (s *yamlSource) Load(ctx context.Context) (map[Tier]Plan, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open plan catalog %s: %w", s.path, err)
	}
	defer f.Close()

	return decodePlans(f)
}

func decodePlans(r io.Reader) (map[Tier]Plan, error) {
	var file yamlCatalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode plan catalog: %w", err)
	}

	if len(file.Plans) == 0 {
		return nil, errors.Join(ErrInvalidPlanConfiguration, errors.New("plan catalog file has no plans"))
	}

	plans := make(map[Tier]Plan, len(file.Plans))
	for _, plan := range file.Plans {
		if _, exists := plans[plan.Tier]; exists {
			return nil, errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("duplicate tier %q in plan catalog", plan.Tier))
		}
		plans[plan.Tier] = plan
	}
	return plans, nil
}
