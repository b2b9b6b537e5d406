package agent

import (
	_ "embed"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed personas.yml
var defaultPersonasRaw []byte

// Persona describes an agent's role framing injected into its prompt
type Persona struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Guidance    string `yaml:"guidance"`
}

// Personas maps each role to its persona
type Personas map[Role]Persona

// DefaultPersonas returns the built-in persona set
func DefaultPersonas() Personas {
	personas, err := parsePersonas(defaultPersonasRaw)
	if err != nil {
		// The embedded file is validated by tests; a parse failure here is
		// a build defect.
		panic(err)
	}
	return personas
}

// LoadPersonas reads a persona YAML file and overlays it onto the
// defaults. Roles absent from the file keep their built-in persona.
func LoadPersonas(path string) (Personas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read persona file", goerr.V("path", path))
	}

	overrides, err := parsePersonas(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse persona file", goerr.V("path", path))
	}

	personas := DefaultPersonas()
	for role, p := range overrides {
		personas[role] = p
	}
	return personas, nil
}

func parsePersonas(data []byte) (Personas, error) {
	var raw map[string]Persona
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "invalid persona yaml")
	}

	personas := make(Personas, len(raw))
	for key, p := range raw {
		role := Role(key)
		switch role {
		case RolePreference, RoleSearch, RoleItinerary, RoleSupport:
			personas[role] = p
		default:
			return nil, goerr.New("unknown persona role", goerr.V("role", key))
		}
	}
	return personas, nil
}
