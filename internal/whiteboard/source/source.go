// Package source loads context and service declarations from a YAML file and
// feeds them to the registry at startup.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"whiteboard/internal/whiteboard/models"
)

// File is the on-disk declarations document.
type File struct {
	Contexts []ContextDecl `yaml:"contexts"`
	Services []ServiceDecl `yaml:"services"`
}

// ContextDecl declares a context. ID is optional; zero means "assign one".
type ContextDecl struct {
	ID         models.ServiceID  `yaml:"id"`
	Name       string            `yaml:"name"`
	Path       string            `yaml:"path"`
	Rank       int               `yaml:"rank"`
	Target     string            `yaml:"target"`
	InitParams map[string]string `yaml:"init_params"`
	Attributes map[string]any    `yaml:"attributes"`
}

// ServiceDecl declares a service of any kind.
type ServiceDecl struct {
	ID            models.ServiceID `yaml:"id"`
	Kind          models.Kind      `yaml:"kind"`
	Name          string           `yaml:"name"`
	Rank          int              `yaml:"rank"`
	Patterns      []string         `yaml:"patterns"`
	Regexes       []string         `yaml:"regexes"`
	ServletNames  []string         `yaml:"servlet_names"`
	Prefix        string           `yaml:"prefix"`
	ContextSelect string           `yaml:"context_select"`
	Target        string           `yaml:"target"`
	Attributes    map[string]any   `yaml:"attributes"`
}

// Registrar is the part of the registry a source feeds.
type Registrar interface {
	AddContext(ctx context.Context, info *models.ContextInfo) error
	AddService(ctx context.Context, info *models.ServiceInfo) error
}

// Load reads and parses a declarations file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read declarations %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse declarations %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a declarations document. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &f, nil
}

// Declarations converts the document into registry declarations. Explicit ids
// are reserved in seq first so assigned ids never collide with them.
func (f *File) Declarations(seq *models.IDSequence) ([]*models.ContextInfo, []*models.ServiceInfo, error) {
	seen := make(map[models.ServiceID]bool)
	for _, c := range f.Contexts {
		if err := reserve(seq, seen, c.ID); err != nil {
			return nil, nil, err
		}
	}
	for _, s := range f.Services {
		if err := reserve(seq, seen, s.ID); err != nil {
			return nil, nil, err
		}
	}

	contexts := make([]*models.ContextInfo, 0, len(f.Contexts))
	for _, c := range f.Contexts {
		id := c.ID
		if id == 0 {
			id = seq.Next()
		}
		contexts = append(contexts, &models.ContextInfo{
			ID:         id,
			Rank:       c.Rank,
			Name:       c.Name,
			Path:       c.Path,
			Target:     c.Target,
			InitParams: c.InitParams,
			Attributes: c.Attributes,
		})
	}

	services := make([]*models.ServiceInfo, 0, len(f.Services))
	for _, s := range f.Services {
		id := s.ID
		if id == 0 {
			id = seq.Next()
		}
		services = append(services, &models.ServiceInfo{
			ID:            id,
			Rank:          s.Rank,
			Kind:          s.Kind,
			Name:          s.Name,
			Patterns:      s.Patterns,
			Regexes:       s.Regexes,
			ServletNames:  s.ServletNames,
			Prefix:        s.Prefix,
			ContextSelect: s.ContextSelect,
			Target:        s.Target,
			Attributes:    s.Attributes,
		})
	}
	return contexts, services, nil
}

// Apply adds every declaration of f to r, contexts first. Errors from the
// registry are collected and returned together.
func Apply(ctx context.Context, r Registrar, f *File, seq *models.IDSequence) error {
	contexts, services, err := f.Declarations(seq)
	if err != nil {
		return err
	}
	var errs []error
	for _, c := range contexts {
		if err := r.AddContext(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	for _, s := range services {
		if err := r.AddService(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func reserve(seq *models.IDSequence, seen map[models.ServiceID]bool, id models.ServiceID) error {
	if id == 0 {
		return nil
	}
	if id < 0 {
		return fmt.Errorf("declaration id %d: negative ids are reserved", id)
	}
	if seen[id] {
		return fmt.Errorf("declaration id %d is used twice", id)
	}
	seen[id] = true
	seq.Observe(id)
	return nil
}
