package dataset

import (
	"context"
	"errors"
	"testing"
)

func resetState(t *testing.T) {
	t.Helper()
	current.Store(nil)
	t.Cleanup(func() { current.Store(nil) })
}

func TestInit_Once(t *testing.T) {
	resetState(t)
	src := writeFixture(t, testReviewsCSV, testCompaniesCSV, testTermsJSON)

	if Current() != nil {
		t.Fatal("expected no dataset before Init")
	}

	if err := Init(context.Background(), src, Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	d := Current()
	if d == nil || len(d.Names()) != 2 {
		t.Fatalf("Current() should return the initialized dataset, got %+v", d)
	}

	if err := Init(context.Background(), src, Options{}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}
	if Current() != d {
		t.Error("second Init must not replace the dataset")
	}
}

func TestInit_FailureLeavesStateEmpty(t *testing.T) {
	resetState(t)
	src := writeFixture(t, testReviewsCSV, testCompaniesCSV, "")
	src.ReviewsPath += ".gone"

	if err := Init(context.Background(), src, Options{}); err == nil {
		t.Fatal("expected error")
	}
	if Current() != nil {
		t.Error("failed Init must not install a dataset")
	}
}
