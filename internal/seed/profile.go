package seed

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile controls how much data a fresh simulation starts with.
type Profile struct {
	// Seed drives every random draw so a profile reproduces the same world.
	Seed int64 `yaml:"seed"`
	// Customers is the size of the customer pool orders draw from.
	Customers int `yaml:"customers"`
	// Employees is the payroll headcount.
	Employees int `yaml:"employees"`
	// BuildTargetUnits sizes initial inventory: enough parts to build this
	// many units of every product.
	BuildTargetUnits int `yaml:"build_target_units"`
}

// DefaultProfile mirrors the reference simulation bootstrap.
func DefaultProfile() Profile {
	return Profile{
		Seed:             42,
		Customers:        1000,
		Employees:        200,
		BuildTargetUnits: 100,
	}
}

// LoadProfile reads a YAML profile, filling omitted fields from the default.
// A missing file returns the default profile unchanged.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return profile, nil
		}
		return profile, err
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := profile.validate(); err != nil {
		return profile, fmt.Errorf("profile %s: %w", path, err)
	}
	return profile, nil
}

func (p Profile) validate() error {
	if p.Customers <= 0 {
		return errors.New("customers must be positive")
	}
	if p.Employees <= 0 {
		return errors.New("employees must be positive")
	}
	if p.BuildTargetUnits <= 0 {
		return errors.New("build_target_units must be positive")
	}
	return nil
}
