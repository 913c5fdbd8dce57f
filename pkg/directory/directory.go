// Package directory provides a category directory read from a YAML file.
//
// The file lists the categories shared by every user and, optionally, per-user
// directories that replace the shared one:
//
//	categories:
//	  - majorCode: "5"
//	    majorName: 餐飲
//	    subCode: "501"
//	    subName: 午餐
//	    synonyms: [中餐]
//	users:
//	  U1001:
//	    - majorCode: "4"
//	      ...
package directory

import (
	"bookkeeper/pkg/domain"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a category directory.
type File struct {
	Categories []domain.CategoryRecord            `yaml:"categories"`
	Users      map[string][]domain.CategoryRecord `yaml:"users,omitempty"`
}

// Directory serves categories loaded from a File. It is immutable and safe
// for concurrent use.
type Directory struct {
	shared []domain.CategoryRecord
	users  map[domain.UserID][]domain.CategoryRecord
}

// Load reads and validates the directory file at path.
func Load(path string) (*Directory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read category file: %w", err)
	}

	return Parse(bytes.NewReader(b))
}

// Parse decodes and validates a directory from r.
func Parse(r io.Reader) (*Directory, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not decode category file: %w", err)
	}

	return New(f)
}

// New validates f and builds a Directory from it.
func New(f File) (*Directory, error) {
	if err := Validate(f.Categories); err != nil {
		return nil, fmt.Errorf("shared categories: %w", err)
	}

	d := &Directory{
		shared: f.Categories,
		users:  make(map[domain.UserID][]domain.CategoryRecord, len(f.Users)),
	}
	for user, categories := range f.Users {
		if user == "" {
			return nil, errors.New("user categories need a user id")
		}
		if err := Validate(categories); err != nil {
			return nil, fmt.Errorf("categories of user %q: %w", user, err)
		}
		d.users[domain.UserID(user)] = categories
	}

	return d, nil
}

// Validate checks that every record has a code and a name and that sub codes
// are unique.
func Validate(categories []domain.CategoryRecord) error {
	seen := make(map[string]struct{}, len(categories))
	for i, c := range categories {
		if c.MajorCode == "" || c.SubCode == "" || c.SubName == "" {
			return fmt.Errorf("category %d: majorCode, subCode and subName are required", i)
		}
		if _, ok := seen[c.SubCode]; ok {
			return fmt.Errorf("category %d: duplicate subCode %q", i, c.SubCode)
		}
		seen[c.SubCode] = struct{}{}
	}

	return nil
}

// GetCategories returns the user's own directory when the file has one and
// the shared directory otherwise. The result is a copy.
func (d *Directory) GetCategories(ctx context.Context, userID domain.UserID) ([]domain.CategoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("could not get categories: %w", err)
	}

	categories, ok := d.users[userID]
	if !ok {
		categories = d.shared
	}

	out := make([]domain.CategoryRecord, len(categories))
	for i, c := range categories {
		c.Synonyms = slices.Clone(c.Synonyms)
		out[i] = c
	}

	return out, nil
}
