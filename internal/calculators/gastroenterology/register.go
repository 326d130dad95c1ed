// Package gastroenterology holds the hepatology, GI bleeding and
// inflammatory bowel disease calculators.
package gastroenterology

import (
	_ "embed"
	"fmt"

	"github.com/mind-engage/clinical-scores/pkg/score"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Register adds every gastroenterology calculator to r.
func Register(r *score.Registry) error {
	cat, err := score.ParseCatalog(catalogYAML)
	if err != nil {
		return fmt.Errorf("gastroenterology: %w", err)
	}
	err = r.RegisterAll(cat,
		newChildPugh,
		newBlatchford,
		newCDAI,
		newHAPS,
		newForrest,
		newBristol,
	)
	if err != nil {
		return fmt.Errorf("gastroenterology: %w", err)
	}
	return nil
}
