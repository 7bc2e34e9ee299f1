// Package dataset loads the review analytics artifacts and holds them as
// read-only, process-wide state.
package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"

	"github.com/ppiankov/reviewlens/internal/model"
)

var (
	// ErrMissingColumn is returned when a required artifact column is absent
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyTable is returned for artifacts without even a header row
	ErrEmptyTable = errors.New("empty table")
)

// DefaultClusterPrefix marks company columns holding cluster labels
const DefaultClusterPrefix = "cluster_"

// DefaultTermsColumn is the cluster column whose label keys the terms lookup
const DefaultTermsColumn = "cluster_kmeans"

// Options control how raw tables are interpreted
type Options struct {
	ClusterPrefix string
	TermsColumn   string // Read whether or not it carries ClusterPrefix
}

func (o Options) termsColumn() string {
	if o.TermsColumn == "" {
		return DefaultTermsColumn
	}
	return o.TermsColumn
}

func (o Options) clusterPrefix() string {
	if o.ClusterPrefix == "" {
		return DefaultClusterPrefix
	}
	return o.ClusterPrefix
}

// Source produces a Dataset from some storage
type Source interface {
	Load(ctx context.Context, opts Options) (*Dataset, error)
	String() string
}

// Dataset is the loaded, immutable set of artifacts.
// Nothing mutates a Dataset after Load returns, so it is safe for
// concurrent readers.
type Dataset struct {
	Reviews        []model.Review
	Companies      []model.Company
	ClusterColumns []string           // Discovered cluster columns, header order
	Terms          model.ClusterTerms // Canonical keys; empty when no lookup was found
	Fingerprint    string             // Hex digest over the raw artifacts
	TermsColumn    string             // Column resolved into Company.TermsCluster

	names     []string
	byName    map[string]int
	byCompany map[int][]int
}

// assemble parses the raw tables into a Dataset and builds its lookups
func assemble(reviewsTable, companyTable *table, terms model.ClusterTerms, h hash.Hash, opts Options) (*Dataset, error) {
	reviews, err := buildReviews(reviewsTable)
	if err != nil {
		return nil, err
	}

	companies, clusterCols, err := buildCompanies(companyTable, opts.clusterPrefix(), opts.termsColumn())
	if err != nil {
		return nil, err
	}

	if terms == nil {
		terms = model.ClusterTerms{}
	}

	d := &Dataset{
		Reviews:        reviews,
		Companies:      companies,
		ClusterColumns: clusterCols,
		Terms:          terms,
		Fingerprint:    hex.EncodeToString(h.Sum(nil))[:16],
		TermsColumn:    opts.termsColumn(),
		byName:         make(map[string]int, len(companies)),
		byCompany:      make(map[int][]int),
	}

	for i, c := range companies {
		if _, exists := d.byName[c.Name]; exists {
			continue
		}
		d.byName[c.Name] = i
		d.names = append(d.names, c.Name)
	}

	for i, r := range reviews {
		d.byCompany[r.CompanyID] = append(d.byCompany[r.CompanyID], i)
	}

	return d, nil
}

// Names returns the distinct company names in table order
func (d *Dataset) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// CompanyByName returns the first company row with exactly this name
func (d *Dataset) CompanyByName(name string) (*model.Company, bool) {
	i, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return &d.Companies[i], true
}

// ReviewsFor returns the reviews whose company id equals id, in table order
func (d *Dataset) ReviewsFor(id int) []model.Review {
	idx := d.byCompany[id]
	out := make([]model.Review, len(idx))
	for i, j := range idx {
		out[i] = d.Reviews[j]
	}
	return out
}

// Load reads a dataset from src
func Load(ctx context.Context, src Source, opts Options) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := src.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	return d, nil
}

// SourceFromConfig picks the SQLite source when a database is configured,
// the file source otherwise
func SourceFromConfig(cfg model.DataConfig) Source {
	if cfg.SQLite != "" {
		return &SQLiteSource{Path: cfg.SQLite}
	}
	return &FileSource{
		ReviewsPath:   cfg.Reviews,
		CompaniesPath: cfg.Companies,
		TermsPath:     cfg.Terms,
	}
}

func newFingerprint() hash.Hash {
	return sha256.New()
}
