package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"matchhub/internal/application/orchestrators"
)

// ErrNoUsers is returned when auth.yaml declares no user.
var ErrNoUsers = errors.New("auth file declares no users")

// authFile mirrors credentials.usernames.<user>.{email,name,password,role}.
type authFile struct {
	Credentials struct {
		Usernames map[string]authUser `yaml:"usernames"`
	} `yaml:"credentials"`
}

type authUser struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// LoadAuthFile reads the declared users, sorted by username.
// PRE: path names a YAML file; passwords are bcrypt hashes
// POST: Returns one seed per user; a missing file wraps os.ErrNotExist
func LoadAuthFile(path string) ([]orchestrators.AccountSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading auth file: %w", err)
	}
	return ParseAuth(data)
}

// ParseAuth decodes auth.yaml content.
func ParseAuth(data []byte) ([]orchestrators.AccountSeed, error) {
	var f authFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing auth file: %w", err)
	}
	if len(f.Credentials.Usernames) == 0 {
		return nil, ErrNoUsers
	}

	seeds := make([]orchestrators.AccountSeed, 0, len(f.Credentials.Usernames))
	for username, u := range f.Credentials.Usernames {
		seeds = append(seeds, orchestrators.AccountSeed{
			Username:     username,
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: u.Password,
			Role:         u.Role,
		})
	}
	sort.Slice(seeds, func(i, j int) bool { return seeds[i].Username < seeds[j].Username })
	return seeds, nil
}
