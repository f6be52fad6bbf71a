package seed

import (
	"context"
	_ "embed"
	"fmt"
	"io"

	"yatube/internal/repository"
	"yatube/internal/service"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed groups.yml
var defaultGroups []byte

// LoadGroups decodes a YAML list of groups.
func LoadGroups(r io.Reader) ([]service.GroupInput, error) {
	var groups []service.GroupInput
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&groups); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode groups: %w", err)
	}
	return groups, nil
}

// DefaultGroups returns the built-in group fixtures.
func DefaultGroups() []service.GroupInput {
	var groups []service.GroupInput
	if err := yaml.Unmarshal(defaultGroups, &groups); err != nil {
		panic(fmt.Sprintf("seed: invalid embedded groups.yml: %v", err))
	}
	return groups
}

// Groups upserts the built-in groups by slug.
func Groups(ctx context.Context, db *gorm.DB) (int, error) {
	svc := service.NewGroupService(repository.NewGroupRepository(db))
	return svc.ImportGroups(ctx, DefaultGroups())
}
