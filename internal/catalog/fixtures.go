package catalog

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// fixtureFile is the on-disk layout of CATALOG_FIXTURES_PATH:
//
//	[[catalog]]
//	name = "coverage/genders"
//	items = [ { id = 1, name = "Femenino" }, { id = 2, name = "Masculino" } ]
type fixtureFile struct {
	Catalog []struct {
		Name  string `toml:"name"`
		Items []Item `toml:"items"`
	} `toml:"catalog"`
}

// LoadFixtures registers every catalog found in the TOML file at path as a
// Static provider, replacing remote ones with the same name.
func LoadFixtures(path string, r *Registry) (int, error) {
	var f fixtureFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return 0, fmt.Errorf("catalog: load fixtures %s: %w", path, err)
	}
	for _, c := range f.Catalog {
		if c.Name == "" {
			return 0, fmt.Errorf("catalog: fixture without name in %s", path)
		}
		r.Register(c.Name, Static(c.Items))
	}
	return len(f.Catalog), nil
}
