package dataset

import (
	"fmt"
	"strings"

	"github.com/ppiankov/reviewlens/internal/model"
)

// Column names of the upstream artifacts
const (
	ColumnID          = "id"
	ColumnSentiment   = "sentiment"
	ColumnCleanReview = "clean_review"
	ColumnCompanyName = "CompanyName"
	ColumnDoc         = "doc"
)

// buildReviews converts the reviews table into typed rows.
// Rows without an id are skipped since they cannot belong to any company.
func buildReviews(t *table) ([]model.Review, error) {
	cols, err := t.require(ColumnID, ColumnSentiment, ColumnCleanReview)
	if err != nil {
		return nil, err
	}
	idCol, sentCol, textCol := cols[0], cols[1], cols[2]

	reviews := make([]model.Review, 0, len(t.rows))
	for i, row := range t.rows {
		rawID := cell(row, idCol)
		if strings.TrimSpace(rawID) == "" {
			continue
		}
		id, err := parseInt(rawID)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", t.name, i+2, ColumnID, err)
		}
		reviews = append(reviews, model.Review{
			CompanyID:   id,
			Sentiment:   model.Sentiment(strings.TrimSpace(cell(row, sentCol))),
			CleanReview: cell(row, textCol),
		})
	}

	return reviews, nil
}

// clusterColumns scans a header for cluster-assignment columns, in header order
func clusterColumns(header []string, prefix string) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, h := range header {
		if strings.HasPrefix(h, prefix) && !seen[h] {
			seen[h] = true
			cols = append(cols, h)
		}
	}
	return cols
}

// buildCompanies converts the company table into typed rows, attaching every
// discovered cluster column to each company as a named assignment. The terms
// column is resolved separately since it need not carry the prefix.
func buildCompanies(t *table, prefix, termsColumn string) ([]model.Company, []string, error) {
	cols, err := t.require(ColumnID, ColumnCompanyName)
	if err != nil {
		return nil, nil, err
	}
	idCol, nameCol := cols[0], cols[1]

	docCol, hasDoc := t.column(ColumnDoc)
	termsCol, hasTerms := t.column(termsColumn)

	clusterCols := clusterColumns(t.header, prefix)
	clusterIdx := make([]int, len(clusterCols))
	for i, c := range clusterCols {
		clusterIdx[i], _ = t.column(c)
	}

	companies := make([]model.Company, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2

		id, err := parseInt(cell(row, idCol))
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d: %s: %w", t.name, line, ColumnID, err)
		}

		company := model.Company{
			ID:     id,
			Name:   cell(row, nameCol),
			HasDoc: hasDoc,
		}
		if hasDoc {
			company.Doc = cell(row, docCol)
		}

		if hasTerms {
			v, err := parseInt(cell(row, termsCol))
			if err != nil {
				return nil, nil, fmt.Errorf("%s row %d: %s: %w", t.name, line, termsColumn, err)
			}
			company.TermsCluster = v
		}

		if len(clusterCols) > 0 {
			company.Clusters = make([]model.ClusterAssignment, len(clusterCols))
			for j, col := range clusterCols {
				v, err := parseInt(cell(row, clusterIdx[j]))
				if err != nil {
					return nil, nil, fmt.Errorf("%s row %d: %s: %w", t.name, line, col, err)
				}
				company.Clusters[j] = model.ClusterAssignment{Column: col, Value: v}
			}
		}

		companies = append(companies, company)
	}

	return companies, clusterCols, nil
}
