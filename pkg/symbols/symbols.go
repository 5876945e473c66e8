// Package symbols holds the icon library used when drawing map annotations.
package symbols

import (
	"bytes"
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed symbols.yaml
var symbolsYaml []byte

type Symbol struct {
	ID       string `yaml:"id" json:"id"`
	Icon     string `yaml:"icon" json:"icon"`
	Label    string `yaml:"label" json:"label"`
	Category string `yaml:"category" json:"category"`
}

var loadOnce sync.Once
var library []Symbol
var loadErr error

func load() {
	decoder := yaml.NewDecoder(bytes.NewReader(symbolsYaml))
	decoder.KnownFields(true)

	loadErr = decoder.Decode(&library)
}

// All returns every symbol in library order
func All() ([]Symbol, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}

	return append([]Symbol{}, library...), nil
}

// ByCategory returns the symbols of one category. An empty category returns everything.
func ByCategory(category string) ([]Symbol, error) {
	all, err := All()
	if err != nil {
		return nil, err
	}

	if category == "" {
		return all, nil
	}

	filtered := []Symbol{}
	for _, symbol := range all {
		if symbol.Category == category {
			filtered = append(filtered, symbol)
		}
	}

	return filtered, nil
}
