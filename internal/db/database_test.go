package db

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	d, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestRunLifecycle(t *testing.T) {
	d := openTestDB(t)

	if err := d.CreateRun("run-1", "single_original", "seller1"); err != nil {
		t.Fatal(err)
	}

	run, err := d.GetRun("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if run == nil || run.Pipeline != "single_original" || run.LoginID != "seller1" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.FinishedAt != nil {
		t.Fatal("fresh run should not be finished")
	}

	if err := d.FinishRun("run-1", 7, 2, "staging_empty"); err != nil {
		t.Fatal(err)
	}
	run, err = d.GetRun("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if run.Succeeded != 7 || run.Failed != 2 || run.TerminationReason != "staging_empty" {
		t.Fatalf("unexpected finished run: %+v", run)
	}
	if run.FinishedAt == nil {
		t.Fatal("finished run should carry a timestamp")
	}
}

func TestGetRunMissing(t *testing.T) {
	d := openTestDB(t)
	run, err := d.GetRun("nope")
	if err != nil {
		t.Fatal(err)
	}
	if run != nil {
		t.Fatalf("missing run should be nil, got %+v", run)
	}
}

func TestProductRecords(t *testing.T) {
	d := openTestDB(t)
	if err := d.CreateRun("run-2", "clone_fanout", "seller1"); err != nil {
		t.Fatal(err)
	}

	if err := d.InsertProduct(ProductRecord{
		RunID:       "run-2",
		Title:       "원피스 A",
		Destination: "신규수집",
		ImageCount:  30,
		OptionCount: 4,
	}); err != nil {
		t.Fatal(err)
	}
	if err := d.InsertProduct(ProductRecord{
		RunID:         "run-2",
		Title:         "셔츠",
		ErrorCategory: "count_mismatch",
		ErrorText:     "expected 4 siblings after cloning",
	}); err != nil {
		t.Fatal(err)
	}

	products, err := d.ListProducts("run-2")
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if products[0].Title != "원피스 A" || products[0].Destination != "신규수집" {
		t.Fatalf("unexpected first product: %+v", products[0])
	}
	if products[1].ErrorCategory != "count_mismatch" {
		t.Fatalf("unexpected second product: %+v", products[1])
	}

	count, err := d.CountProducts("run-2")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("got count %d, want 2", count)
	}
}

func TestListRunsFilter(t *testing.T) {
	d := openTestDB(t)
	d.CreateRun("r1", "single_original", "s")
	d.CreateRun("r2", "clone_fanout", "s")

	runs, err := d.ListRuns("clone_fanout", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "r2" {
		t.Fatalf("unexpected filter result: %+v", runs)
	}

	runs, err = d.ListRuns("all", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
}
