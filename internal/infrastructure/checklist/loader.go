package checklist

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/usecase"
)

// Load reads a checklist override file. An empty path means no override
// and yields the built-in checklist. The file carries a single `steps`
// list; blank entries are dropped.
func Load(path string) (usecase.Checklist, error) {
	if strings.TrimSpace(path) == "" {
		return usecase.DefaultChecklist(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checklist file: %w", err)
	}

	var doc struct {
		Steps []string `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse checklist file: %w", err)
	}

	steps := make(usecase.Checklist, 0, len(doc.Steps))
	for _, step := range doc.Steps {
		if step = strings.TrimSpace(step); step != "" {
			steps = append(steps, step)
		}
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("checklist file %s has no steps", path)
	}
	return steps, nil
}
