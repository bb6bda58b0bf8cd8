package extract

import (
	"strings"
	"testing"

	"github.com/finreg-tools/corepqa/internal/corep"
)

func TestParseResponse_ValidJSON(t *testing.T) {
	raw := `{
		"answer": null,
		"CET1_capital": 100,
		"Tier1_capital": 120,
		"Tier2_capital": 30,
		"Total_own_funds": 150,
		"source_rules": {},
		"audit_log": [],
		"warnings": []
	}`

	rec := ParseResponse(raw)

	if !rec.CET1.Valid || rec.CET1.Value != 100 {
		t.Errorf("expected CET1=100, got %+v", rec.CET1)
	}
	if len(rec.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", rec.Warnings)
	}
}

func TestParseResponse_FencedJSON(t *testing.T) {
	raw := "```json\n{\"answer\": null, \"CET1_capital\": 42}\n```"

	rec := ParseResponse(raw)

	if !rec.CET1.Valid || rec.CET1.Value != 42 {
		t.Errorf("expected fenced JSON parsed, got %+v", rec.CET1)
	}
	if len(rec.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", rec.Warnings)
	}
}

func TestParseResponse_BareFence(t *testing.T) {
	raw := "```\n{\"Tier2_capital\": 5}\n```"

	rec := ParseResponse(raw)

	if !rec.Tier2.Valid || rec.Tier2.Value != 5 {
		t.Errorf("expected bare-fenced JSON parsed, got %+v", rec.Tier2)
	}
}

func TestParseResponse_InvalidJSONFallsBack(t *testing.T) {
	raw := "  The CET1 capital is reported in row 010.  "

	rec := ParseResponse(raw)

	if !rec.Answer.Valid || rec.Answer.Value != "The CET1 capital is reported in row 010." {
		t.Errorf("expected raw text as answer, got %+v", rec.Answer)
	}
	if len(rec.Warnings) != 1 || rec.Warnings[0] != InvalidJSONWarning {
		t.Fatalf("expected single invalid-JSON warning, got %v", rec.Warnings)
	}
	for _, f := range []corep.Number{rec.CET1, rec.Tier1, rec.Tier2, rec.Total} {
		if !f.Defined || !f.Null {
			t.Errorf("expected null figure in fallback, got %+v", f)
		}
	}
	if !rec.SourceRules.Valid || len(rec.SourceRules.Fields) != 0 {
		t.Errorf("expected valid empty source_rules, got %+v", rec.SourceRules)
	}
	if !rec.AuditLog.Valid || len(rec.AuditLog.Entries) != 0 {
		t.Errorf("expected valid empty audit_log, got %+v", rec.AuditLog)
	}
}

func TestParseResponse_TopLevelArrayFallsBack(t *testing.T) {
	rec := ParseResponse(`[{"CET1_capital": 1}]`)

	if len(rec.Warnings) != 1 || rec.Warnings[0] != InvalidJSONWarning {
		t.Fatalf("expected fallback for top-level array, got %v", rec.Warnings)
	}
	if !rec.Answer.Valid || rec.Answer.Value != `[{"CET1_capital": 1}]` {
		t.Errorf("expected raw array as answer, got %+v", rec.Answer)
	}
}

func TestParseResponse_LongRawTruncated(t *testing.T) {
	raw := strings.Repeat("x", 1000)

	rec := ParseResponse(raw)

	if n := len([]rune(rec.Answer.Value)); n != FallbackAnswerLimit {
		t.Errorf("expected answer of %d runes, got %d", FallbackAnswerLimit, n)
	}
}

func TestBuildPrompt_Substitution(t *testing.T) {
	prompt := BuildPrompt("[RuleID: annex.pdf-p1-c0]\nCET1 text", "What is CET1?")

	if !strings.Contains(prompt, "[RuleID: annex.pdf-p1-c0]") {
		t.Error("expected context embedded in prompt")
	}
	if !strings.Contains(prompt, "What is CET1?") {
		t.Error("expected question embedded in prompt")
	}
	if strings.Contains(prompt, "{context}") || strings.Contains(prompt, "{question}") {
		t.Error("expected placeholders replaced")
	}
	if !strings.Contains(prompt, `"CET1_capital"`) {
		t.Error("expected schema field names in prompt")
	}
}
