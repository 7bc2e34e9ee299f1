package model

// Company is one row of the company feature table
type Company struct {
	ID       int                 `json:"id"`
	Name     string              `json:"company_name"`
	Clusters []ClusterAssignment `json:"clusters,omitempty"` // In header order
	Doc      string              `json:"doc,omitempty"`      // Aggregated review text, if precomputed
	HasDoc   bool                `json:"-"`                  // Whether the table carries a doc column at all

	TermsCluster int `json:"terms_cluster"` // Value of the terms column, 0 when the table has none
}

// ClusterAssignment is the label one clustering algorithm gave a company
type ClusterAssignment struct {
	Column string `json:"column"` // e.g. "cluster_kmeans"
	Value  int    `json:"value"`
}

// Cluster returns the assignment stored under column, if any
func (c *Company) Cluster(column string) (int, bool) {
	for _, a := range c.Clusters {
		if a.Column == column {
			return a.Value, true
		}
	}
	return 0, false
}

// ClusterTerms maps a canonical cluster id to its top terms
type ClusterTerms map[string][]string
