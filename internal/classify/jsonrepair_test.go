package classify

import "testing"

func TestParseModelJSONClean(t *testing.T) {
	var resp struct {
		AssignedRCC string `json:"assigned_rcc"`
	}

	err := ParseModelJSON(`{"assigned_rcc":"CFA360"}`, &resp)
	if err != nil {
		t.Fatalf("Expected clean JSON to parse, got error: %v", err)
	}
	if resp.AssignedRCC != "CFA360" {
		t.Errorf("Expected CFA360, got %s", resp.AssignedRCC)
	}
}

func TestParseModelJSONWrappedInProse(t *testing.T) {
	var resp struct {
		AssignedRCC string `json:"assigned_rcc"`
	}

	raw := `Here is the result: {"assigned_rcc":"CFA360"} Thanks!`
	if err := ParseModelJSON(raw, &resp); err != nil {
		t.Fatalf("Expected prose-wrapped JSON to parse, got error: %v", err)
	}
	if resp.AssignedRCC != "CFA360" {
		t.Errorf("Expected CFA360, got %s", resp.AssignedRCC)
	}
}

func TestParseModelJSONCodeFence(t *testing.T) {
	var resp struct {
		AssignedRCC string `json:"assigned_rcc"`
	}

	raw := "```json\n{\"assigned_rcc\":\"ADM150\"}\n```"
	if err := ParseModelJSON(raw, &resp); err != nil {
		t.Fatalf("Expected fenced JSON to parse, got error: %v", err)
	}
	if resp.AssignedRCC != "ADM150" {
		t.Errorf("Expected ADM150, got %s", resp.AssignedRCC)
	}
}

func TestParseModelJSONNestedBraces(t *testing.T) {
	var resp struct {
		Analysis map[string]struct {
			Group string `json:"group"`
		} `json:"analysis"`
	}

	raw := `The analysis is: {"analysis": {"orders": {"group": "SALES"}}} done`
	if err := ParseModelJSON(raw, &resp); err != nil {
		t.Fatalf("Expected nested JSON to parse, got error: %v", err)
	}
	if resp.Analysis["orders"].Group != "SALES" {
		t.Errorf("Expected orders to be in SALES, got %s", resp.Analysis["orders"].Group)
	}
}

func TestParseModelJSONBracesInsideStrings(t *testing.T) {
	var resp struct {
		Reasoning string `json:"reasoning"`
	}

	raw := `prefix {"reasoning": "uses {braces} inside"} suffix`
	if err := ParseModelJSON(raw, &resp); err != nil {
		t.Fatalf("Expected JSON with braces in strings to parse, got error: %v", err)
	}
	if resp.Reasoning != "uses {braces} inside" {
		t.Errorf("Unexpected reasoning: %s", resp.Reasoning)
	}
}

func TestParseModelJSONUnrecoverable(t *testing.T) {
	var resp struct{}

	if err := ParseModelJSON("no json here at all", &resp); err == nil {
		t.Error("Expected parse to fail for a response without JSON")
	}

	if err := ParseModelJSON(`truncated {"assigned_rcc": "CFA`, &resp); err == nil {
		t.Error("Expected parse to fail for truncated JSON")
	}
}
