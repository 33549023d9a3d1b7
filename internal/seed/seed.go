// Package seed loads reference data (regiments and admin grants) from a YAML
// file into storage.
package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

// File is the on-disk seed document.
type File struct {
	Regiments []Regiment `yaml:"regiments"`
	// Admins are user ids granted the admin role.
	Admins []string `yaml:"admins"`
}

type Regiment struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	RobloxGroupID  string `yaml:"roblox_group_id"`
	RobloxGroupURL string `yaml:"roblox_group_url"`
	LogoURL        string `yaml:"logo_url"`
	Motto          string `yaml:"motto"`
}

// Result counts what Apply wrote.
type Result struct {
	Regiments int
	Admins    int
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document and checks that every regiment has a name.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	seen := make(map[string]bool, len(f.Regiments))
	for i, r := range f.Regiments {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("regiment #%d: name is required", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("regiment %q listed twice", name)
		}
		seen[name] = true
	}
	return &f, nil
}

// Apply upserts regiments by name and grants the admin role to each listed
// user. Running it twice leaves storage unchanged.
func Apply(ctx context.Context, f *File, regiments ports.RegimentRepository, roles ports.RoleRepository, log zerolog.Logger) (Result, error) {
	var res Result

	for _, r := range f.Regiments {
		reg := r.toDomain()
		if err := regiments.Upsert(ctx, reg); err != nil {
			return res, fmt.Errorf("upsert regiment %q: %w", reg.Name, err)
		}
		log.Debug().Int64("id", reg.ID).Str("name", reg.Name).Msg("regiment seeded")
		res.Regiments++
	}

	for _, id := range f.Admins {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if err := roles.Grant(ctx, id, domain.RoleAdmin); err != nil {
			return res, fmt.Errorf("grant admin %q: %w", id, err)
		}
		log.Debug().Str("user_id", id).Msg("admin granted")
		res.Admins++
	}

	return res, nil
}

func (r Regiment) toDomain() *domain.Regiment {
	return &domain.Regiment{
		Name:           strings.TrimSpace(r.Name),
		Description:    optional(r.Description),
		RobloxGroupID:  optional(r.RobloxGroupID),
		RobloxGroupURL: optional(r.RobloxGroupURL),
		LogoURL:        optional(r.LogoURL),
		Motto:          optional(r.Motto),
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
