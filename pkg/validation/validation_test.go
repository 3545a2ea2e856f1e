package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestNewReport(t *testing.T) {
	r := NewReport()
	if !r.Valid {
		t.Error("new report should be valid")
	}
	if len(r.Errors) != 0 || len(r.Warnings) != 0 || len(r.Info) != 0 {
		t.Error("new report should have empty slices")
	}
	if r.Err() != nil {
		t.Error("valid report should have no error")
	}
}

func TestAddError(t *testing.T) {
	r := NewReport()
	r.AddError(Result{
		Level:   LevelSchema,
		Message: "bad value",
	})
	if r.Valid {
		t.Error("report with error should be invalid")
	}
	if len(r.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(r.Errors))
	}
	if r.Errors[0].Severity != SeverityError {
		t.Error("AddError should set severity to error")
	}
	if r.Summary != "1 errors, 0 warnings, 0 info" {
		t.Errorf("unexpected summary: %s", r.Summary)
	}
}

func TestAddWarningAndInfo(t *testing.T) {
	r := NewReport()
	r.AddWarning(Result{Level: LevelDeck, Message: "heads up"})
	r.AddInfo(Result{Level: LevelModel, Message: "fyi"})
	if !r.Valid {
		t.Error("warnings and info should not invalidate report")
	}
	if r.Warnings[0].Severity != SeverityWarning || r.Info[0].Severity != SeverityInfo {
		t.Error("severity not set")
	}
	if r.Summary != "0 errors, 1 warnings, 1 info" {
		t.Errorf("unexpected summary: %s", r.Summary)
	}
}

func TestMerge(t *testing.T) {
	a := NewReport()
	a.AddWarning(Result{Level: LevelModel, Message: "w"})

	b := NewReport()
	b.AddError(Result{Level: LevelDeck, Message: "e"})
	b.AddInfo(Result{Level: LevelDeck, Message: "i"})

	a.Merge(b)
	if a.Valid {
		t.Error("merging an invalid report should invalidate")
	}
	if len(a.Errors) != 1 || len(a.Warnings) != 1 || len(a.Info) != 1 {
		t.Errorf("unexpected counts: %s", a.Summary)
	}
}

func TestMergeValidIntoValid(t *testing.T) {
	a := NewReport()
	b := NewReport()
	b.AddInfo(Result{Level: LevelSchema, Message: "i"})
	a.Merge(b)
	if !a.Valid {
		t.Error("merging valid reports should stay valid")
	}
}

func TestErr(t *testing.T) {
	r := NewReport()
	r.AddError(Result{Level: LevelDeck, Message: "duplicate cell number", SpecPath: "regions[0].cells[1].number"})
	r.AddError(Result{Level: LevelDeck, Message: "no path"})

	err := r.Err()
	var re *ReportError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ReportError, got %T", err)
	}
	if re.Report != r {
		t.Error("error should carry the report")
	}
	msg := err.Error()
	for _, want := range []string{"2 errors", "regions[0].cells[1].number: duplicate cell number", "no path"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}
