// Package seeds loads the reference data every installation starts with.
package seeds

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/catalog"
)

//go:embed schemes.yaml
var schemesYAML []byte

// Result counts what a seeding run did.
type Result struct {
	Created int
	Skipped int
}

// Schemes parses the embedded scheme catalogue and validates every entry.
func Schemes() ([]catalog.SchemeInput, error) {
	return parseSchemes(schemesYAML)
}

func parseSchemes(data []byte) ([]catalog.SchemeInput, error) {
	var in []catalog.SchemeInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse schemes: %w", err)
	}
	for i := range in {
		if err := in[i].Validate(); err != nil {
			return nil, fmt.Errorf("scheme %d (%q): %w", i, in[i].Name, err)
		}
	}
	return in, nil
}

// SeedAll inserts every embedded scheme that is not already present.
// Running it twice creates nothing the second time.
func SeedAll(ctx context.Context, store catalog.Store, logger *slog.Logger) (Result, error) {
	var res Result
	inputs, err := Schemes()
	if err != nil {
		return res, err
	}

	for _, in := range inputs {
		s := &catalog.Scheme{ID: uuid.NewString()}
		in.Apply(s)

		err := store.CreateScheme(ctx, s)
		var dup *apperr.DuplicateError
		switch {
		case errors.As(err, &dup):
			res.Skipped++
			logger.DebugContext(ctx, "scheme already seeded", "name", s.Name)
		case err != nil:
			return res, fmt.Errorf("seed scheme %q: %w", s.Name, err)
		default:
			res.Created++
			logger.InfoContext(ctx, "scheme seeded", "name", s.Name, "category", s.Category)
		}
	}
	return res, nil
}
