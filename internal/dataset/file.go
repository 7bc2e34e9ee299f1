package dataset

import (
	"context"
	"errors"
	"fmt"
	"hash"
	"io/fs"
	"os"

	"github.com/ppiankov/reviewlens/internal/model"
)

// FileSource reads the artifacts from CSV and JSON files
type FileSource struct {
	ReviewsPath   string // Required
	CompaniesPath string // Required
	TermsPath     string // Optional; a missing file yields an empty lookup
}

func (s *FileSource) String() string {
	return fmt.Sprintf("files (%s, %s, %s)", s.ReviewsPath, s.CompaniesPath, s.TermsPath)
}

// Load reads all three files. Either CSV being missing or malformed fails
// the whole load.
func (s *FileSource) Load(ctx context.Context, opts Options) (*Dataset, error) {
	h := newFingerprint()

	rawReviews, err := os.ReadFile(s.ReviewsPath)
	if err != nil {
		return nil, fmt.Errorf("read reviews: %w", err)
	}
	h.Write(rawReviews)

	rawCompanies, err := os.ReadFile(s.CompaniesPath)
	if err != nil {
		return nil, fmt.Errorf("read companies: %w", err)
	}
	h.Write(rawCompanies)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reviewsTable, err := parseCSV(s.ReviewsPath, rawReviews)
	if err != nil {
		return nil, err
	}
	companyTable, err := parseCSV(s.CompaniesPath, rawCompanies)
	if err != nil {
		return nil, err
	}

	terms, err := s.loadTerms(h)
	if err != nil {
		return nil, err
	}

	return assemble(reviewsTable, companyTable, terms, h, opts)
}

// loadTerms reads the optional terms file
func (s *FileSource) loadTerms(h hash.Hash) (model.ClusterTerms, error) {
	if s.TermsPath == "" {
		return model.ClusterTerms{}, nil
	}

	raw, err := os.ReadFile(s.TermsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return model.ClusterTerms{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cluster terms: %w", err)
	}
	h.Write(raw)

	return parseTerms(raw)
}
