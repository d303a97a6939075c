package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDir reads the data tables from a directory of YAML documents. Missing
// files fall back to the compiled-in defaults for that table; malformed files
// abort the load. Cross-table references are validated before the tables are
// handed to the simulation.
func LoadDir(dir string) (*Tables, error) {
	tables := &Tables{}

	var elements elementsDoc
	found, err := loadYAML(filepath.Join(dir, "elements.yaml"), &elements)
	if err != nil {
		return nil, err
	}
	if found {
		for _, row := range elements.Elements {
			converted, err := row.toRow()
			if err != nil {
				return nil, err
			}
			tables.Elements = append(tables.Elements, converted)
		}
	} else {
		tables.Elements = defaultElementRows()
	}

	var archetypes archetypesDoc
	found, err = loadYAML(filepath.Join(dir, "archetypes.yaml"), &archetypes)
	if err != nil {
		return nil, err
	}
	if found {
		tables.Archetypes = archetypes.Archetypes
	} else {
		tables.Archetypes = defaultArchetypes()
	}

	var attacks attacksDoc
	found, err = loadYAML(filepath.Join(dir, "attacks.yaml"), &attacks)
	if err != nil {
		return nil, err
	}
	if found {
		for _, row := range attacks.Attacks {
			converted, err := row.toAttack()
			if err != nil {
				return nil, err
			}
			tables.Attacks = append(tables.Attacks, converted)
		}
	} else {
		tables.Attacks = defaultAttacks()
	}

	var starters startersDoc
	found, err = loadYAML(filepath.Join(dir, "starters.yaml"), &starters)
	if err != nil {
		return nil, err
	}
	if found {
		tables.Starters = starters.Starters
	} else {
		tables.Starters = defaultStarters()
	}

	if err := tables.finish(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Default returns the compiled-in tables used when no data directory is
// configured.
func Default() *Tables {
	tables := &Tables{
		Elements:   defaultElementRows(),
		Archetypes: defaultArchetypes(),
		Attacks:    defaultAttacks(),
		Starters:   defaultStarters(),
	}
	if err := tables.finish(); err != nil {
		panic(fmt.Sprintf("config: built-in tables are invalid: %v", err))
	}
	return tables
}

func loadYAML(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return true, nil
}
