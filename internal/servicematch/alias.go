// Package servicematch resolves noisy, user-typed or email-detected service
// names against catalog names using alias expansion, containment and
// edit-distance fallback.
package servicematch

import (
	_ "embed"
	"encoding/json"
	"os"
)

//go:embed aliases.json
var embeddedAliases []byte

// AliasTable maps a canonical service name to its known spelling and brand
// variants. It is loaded reference data, not a compiled-in constant, so the
// table can be replaced without redeploying the matcher.
type AliasTable map[string][]string

// DefaultAliasTable returns the table shipped with the binary.
func DefaultAliasTable() (AliasTable, error) {
	return parseAliasTable(embeddedAliases)
}

// LoadAliasTable reads an alias table from a JSON file. An empty path falls
// back to the embedded default.
func LoadAliasTable(path string) (AliasTable, error) {
	if path == "" {
		return DefaultAliasTable()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseAliasTable(raw)
}

func parseAliasTable(raw []byte) (AliasTable, error) {
	var table AliasTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// Expand returns the full alias set for a name: the canonical name plus all
// variants when the name belongs to a known alias group, or the bare name as
// a singleton set otherwise.
func (t AliasTable) Expand(name string) []string {
	normalized := Normalize(name)
	for canonical, variants := range t {
		if Normalize(canonical) == normalized {
			return append([]string{canonical}, variants...)
		}
		for _, variant := range variants {
			if Normalize(variant) == normalized {
				return append([]string{canonical}, variants...)
			}
		}
	}
	return []string{name}
}
