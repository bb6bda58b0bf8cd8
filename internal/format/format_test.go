package format

import (
	"reflect"
	"strings"
	"testing"

	"github.com/finreg-tools/corepqa/internal/corep"
)

func scenarioRecord() corep.Record {
	return corep.Record{
		Answer: corep.NullStr(),
		CET1:   corep.Num(100),
		Tier1:  corep.Num(120),
		Tier2:  corep.Num(30),
		Total:  corep.Num(150),
		SourceRules: corep.SourceRules{
			Defined: true,
			Valid:   true,
			Fields: map[string][]string{
				"CET1_capital":    {"annex.pdf-p1-c0"},
				"Tier1_capital":   {},
				"Tier2_capital":   {},
				"Total_own_funds": {},
			},
		},
		AuditLog: corep.AuditLog{Defined: true, Valid: true, Entries: []corep.AuditEntry{}},
		Warnings: []string{},
	}
}

func TestTable_Rows(t *testing.T) {
	rec := scenarioRecord()
	rec.Tier2 = corep.NullNum()

	rows := Table(rec)

	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Field != "CET1 Capital" || rows[0].Value != float64(100) {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[2].Field != "Tier 2 Capital" || rows[2].Value != "Not provided" {
		t.Errorf("expected null shown as Not provided, got %+v", rows[2])
	}
	if rows[3].Field != "Total Own Funds" {
		t.Errorf("unexpected last row: %+v", rows[3])
	}
}

func TestTemplateExtract_Rows(t *testing.T) {
	rows := TemplateExtract(scenarioRecord())

	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.Template != corep.TemplateName {
		t.Errorf("unexpected template name: %q", first.Template)
	}
	if first.FieldID != "OF.CET1" || first.FieldName != "CET1_capital" {
		t.Errorf("unexpected field ids: %+v", first)
	}
	if !reflect.DeepEqual(first.Sources, []string{"annex.pdf-p1-c0"}) {
		t.Errorf("expected citations carried, got %v", first.Sources)
	}
	if rows[3].FieldID != "OF.TOTAL" {
		t.Errorf("unexpected total field id: %q", rows[3].FieldID)
	}
	for i, r := range rows {
		if r.Sources == nil {
			t.Errorf("row %d has nil sources", i)
		}
	}
}

func TestTemplateExtract_MissingSourcesDefaultEmpty(t *testing.T) {
	rec := scenarioRecord()
	rec.SourceRules.Fields = nil

	rows := TemplateExtract(rec)

	for i, r := range rows {
		if r.Sources == nil || len(r.Sources) != 0 {
			t.Errorf("row %d expected empty sources, got %v", i, r.Sources)
		}
	}
}

func TestSummary_Scenario(t *testing.T) {
	rec := scenarioRecord()
	rec.Warnings = []string{"Tier2_capital cannot be negative."}

	got := Summary(rec)

	if !strings.Contains(got, "COREP Own Funds Summary") {
		t.Error("expected summary header")
	}
	if !strings.Contains(got, "- CET1 Capital: 100") {
		t.Errorf("expected figure line, got:\n%s", got)
	}
	if !strings.Contains(got, "Warnings:") || !strings.Contains(got, "- Tier2_capital cannot be negative.") {
		t.Errorf("expected warnings section, got:\n%s", got)
	}
}

func TestSummary_Conceptual(t *testing.T) {
	rec := scenarioRecord()
	rec.Answer = corep.Str("CET1 capital is the highest quality of regulatory capital.")
	rec.CET1 = corep.NullNum()
	rec.Tier1 = corep.NullNum()
	rec.Tier2 = corep.NullNum()
	rec.Total = corep.NullNum()

	got := Summary(rec)

	if !strings.Contains(got, "Explanation:") {
		t.Errorf("expected explanation section, got:\n%s", got)
	}
	if !strings.Contains(got, "highest quality of regulatory capital") {
		t.Errorf("expected answer text, got:\n%s", got)
	}
	if strings.Contains(got, "Not provided") {
		t.Errorf("expected no figure lines in conceptual summary, got:\n%s", got)
	}
}

func TestSummary_NoWarningsSectionWhenClean(t *testing.T) {
	got := Summary(scenarioRecord())

	if strings.Contains(got, "Warnings:") {
		t.Errorf("expected no warnings section, got:\n%s", got)
	}
}

func TestWarningsAndSources_NeverNil(t *testing.T) {
	var rec corep.Record

	if Warnings(rec) == nil {
		t.Error("expected non-nil warnings")
	}
	if Sources(rec) == nil {
		t.Error("expected non-nil sources")
	}
}
