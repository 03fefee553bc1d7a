// Package changelog holds the environment-scoped seed data for the identity
// tables and the runner that applies it at most once per changeset.
package changelog

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environments that select changesets.
const (
	EnvDev  = "dev"
	EnvUAT  = "uat"
	EnvProd = "prod"
)

// Table sets a changeset writes into.
const (
	TargetMain   = "main"
	TargetSample = "sample"
)

var (
	ErrInvalidChangelog = errors.New("changelog: invalid changelog")
	ErrChecksumMismatch = errors.New("changelog: checksum mismatch")
	ErrUnknownRole      = errors.New("changelog: unknown role")
	ErrUnknownEnv       = errors.New("changelog: unknown environment")
)

//go:embed seed.yaml
var defaultSeed []byte

// Changelog is an ordered list of changesets.
type Changelog struct {
	Changesets []Changeset `yaml:"changesets"`
}

type Changeset struct {
	ID       string   `yaml:"id"`
	Author   string   `yaml:"author"`
	Contexts []string `yaml:"contexts,omitempty"` // empty applies everywhere
	Target   string   `yaml:"target,omitempty"`   // defaults to main
	Roles    []Role   `yaml:"roles,omitempty"`
	Users    []User   `yaml:"users,omitempty"`

	checksum string
}

type Role struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

type User struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email,omitempty"`
	FirstName string `yaml:"first_name,omitempty"`
	LastName  string `yaml:"last_name,omitempty"`

	// Password is hashed on insert. Users without one must set a password
	// before first use, so they are stored with expired credentials.
	Password string `yaml:"password,omitempty"`

	Disabled       bool `yaml:"disabled,omitempty"`
	AccountLocked  bool `yaml:"account_locked,omitempty"`
	AccountExpired bool `yaml:"account_expired,omitempty"`

	Roles []string `yaml:"roles,omitempty"` // role names within the same target
}

// ValidEnv reports whether env names a known environment.
func ValidEnv(env string) bool {
	switch env {
	case EnvDev, EnvUAT, EnvProd:
		return true
	}
	return false
}

// Default returns the changelog embedded in the binary.
func Default() (Changelog, error) {
	return Load(bytes.NewReader(defaultSeed))
}

// Load parses and validates a YAML changelog.
func Load(r io.Reader) (Changelog, error) {
	var cl Changelog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cl); err != nil {
		return Changelog{}, fmt.Errorf("%w: %v", ErrInvalidChangelog, err)
	}

	seen := make(map[string]struct{}, len(cl.Changesets))
	for i := range cl.Changesets {
		cs := &cl.Changesets[i]
		if err := cs.validate(); err != nil {
			return Changelog{}, err
		}
		if _, dup := seen[cs.ID]; dup {
			return Changelog{}, fmt.Errorf("%w: duplicate changeset id %q", ErrInvalidChangelog, cs.ID)
		}
		seen[cs.ID] = struct{}{}

		sum, err := cs.computeChecksum()
		if err != nil {
			return Changelog{}, err
		}
		cs.checksum = sum
	}
	return cl, nil
}

func (cs *Changeset) validate() error {
	cs.ID = strings.TrimSpace(cs.ID)
	if cs.ID == "" {
		return fmt.Errorf("%w: changeset without id", ErrInvalidChangelog)
	}
	if cs.Target == "" {
		cs.Target = TargetMain
	}
	if cs.Target != TargetMain && cs.Target != TargetSample {
		return fmt.Errorf("%w: changeset %s: unknown target %q", ErrInvalidChangelog, cs.ID, cs.Target)
	}
	for _, c := range cs.Contexts {
		if !ValidEnv(c) {
			return fmt.Errorf("%w: changeset %s: unknown context %q", ErrInvalidChangelog, cs.ID, c)
		}
	}
	for _, r := range cs.Roles {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%w: changeset %s: role without name", ErrInvalidChangelog, cs.ID)
		}
	}
	for _, u := range cs.Users {
		if strings.TrimSpace(u.Username) == "" {
			return fmt.Errorf("%w: changeset %s: user without username", ErrInvalidChangelog, cs.ID)
		}
	}
	return nil
}

// computeChecksum hashes the canonical YAML encoding of the changeset, so
// formatting and comments in the source file do not count as drift.
func (cs *Changeset) computeChecksum() (string, error) {
	canonical, err := yaml.Marshal(cs)
	if err != nil {
		return "", fmt.Errorf("changelog: encode %s: %w", cs.ID, err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Checksum returns the SHA-256 of the changeset content.
func (cs Changeset) Checksum() string { return cs.checksum }

// AppliesTo reports whether the changeset runs in env.
func (cs Changeset) AppliesTo(env string) bool {
	return len(cs.Contexts) == 0 || slices.Contains(cs.Contexts, env)
}
