// Package chains maps marketplace chain slugs to canonical chain names.
//
// Marketplaces spell the same network differently ("matic" vs "polygon",
// "eth" vs "ethereum"). The registry holds one canonical upper-case name per
// chain plus the set of lower-case slugs that resolve to it. The table is
// built once at init and never mutated afterwards, so lookups are safe from
// concurrent readers.
package chains

import (
	"fmt"
	"sort"
	"strings"
)

// Chain is one canonical chain together with the slug spellings that
// marketplaces use for it in URLs. Name is always upper case; aliases are
// stored lower case.
type Chain struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// Registry resolves chain slugs to canonical chain names.
type Registry struct {
	byAlias map[string]string
	chains  []Chain
}

// NewRegistry builds a registry from a chain table. It fails when two
// canonical chains claim the same alias, so ambiguity is caught at load
// time instead of silently winning by iteration order.
func NewRegistry(table []Chain) (*Registry, error) {
	r := &Registry{
		byAlias: make(map[string]string, len(table)*2),
		chains:  make([]Chain, 0, len(table)),
	}

	for _, c := range table {
		name := strings.ToUpper(strings.TrimSpace(c.Name))
		if name == "" {
			return nil, fmt.Errorf("chain entry with empty canonical name")
		}

		aliases := make([]string, 0, len(c.Aliases))

		for _, alias := range c.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" {
				continue
			}

			if owner, exists := r.byAlias[alias]; exists {
				if owner == name {
					continue
				}

				return nil, fmt.Errorf("alias %q claimed by both %s and %s", alias, owner, name)
			}

			r.byAlias[alias] = name
			aliases = append(aliases, alias)
		}

		if len(aliases) == 0 {
			return nil, fmt.Errorf("chain %s has no aliases", name)
		}

		r.chains = append(r.chains, Chain{Name: name, Aliases: aliases})
	}

	sort.Slice(r.chains, func(i, j int) bool {
		return r.chains[i].Name < r.chains[j].Name
	})

	return r, nil
}

// Resolve returns the canonical chain name for a slug. Lookup is
// case-insensitive. An unknown slug returns ok=false; there is no default
// chain.
func (r *Registry) Resolve(slug string) (string, bool) {
	name, ok := r.byAlias[strings.ToLower(strings.TrimSpace(slug))]
	return name, ok
}

// Chains returns all registered chains sorted by canonical name.
func (r *Registry) Chains() []Chain {
	out := make([]Chain, len(r.chains))
	copy(out, r.chains)

	return out
}

// Len returns the number of canonical chains in the registry.
func (r *Registry) Len() int {
	return len(r.chains)
}
