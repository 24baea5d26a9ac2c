package domain

import (
	"strings"
	"testing"
)

func TestGuardQueryRejectsNonSelect(t *testing.T) {
	cases := []string{
		"DELETE FROM variant",
		"update variant set chrom = 'chr1'",
		"DROP TABLE variant",
		"  insert into variant values (1)",
		"",
	}
	for _, stmt := range cases {
		if _, err := GuardQuery(stmt, DefaultQueryLimit); err == nil {
			t.Fatalf("expected rejection for %q", stmt)
		} else if !strings.Contains(err.Error(), "SELECT") {
			t.Fatalf("expected error to name SELECT, got %v", err)
		}
	}
}

func TestGuardQueryAppendsLimit(t *testing.T) {
	stmt, err := GuardQuery("select * from variant", 100)
	if err != nil {
		t.Fatalf("guard query: %v", err)
	}
	if stmt != "select * from variant LIMIT 100" {
		t.Fatalf("expected limit appended, got %q", stmt)
	}
}

func TestGuardQueryKeepsExistingLimit(t *testing.T) {
	stmt, err := GuardQuery("select * from variant limit 5", 100)
	if err != nil {
		t.Fatalf("guard query: %v", err)
	}
	if stmt != "select * from variant limit 5" {
		t.Fatalf("expected statement unmodified, got %q", stmt)
	}
}

func TestGuardQueryTrimsWhitespace(t *testing.T) {
	stmt, err := GuardQuery("  SELECT base__hugo FROM variant  ", 10)
	if err != nil {
		t.Fatalf("guard query: %v", err)
	}
	if stmt != "SELECT base__hugo FROM variant LIMIT 10" {
		t.Fatalf("expected trimmed statement with limit, got %q", stmt)
	}
}
