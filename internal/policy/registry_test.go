package policy

import "testing"

func TestLookupKnownCode(t *testing.T) {
	registry := NewRegistry()

	rule, ok := registry.Lookup("CFA360")
	if !ok {
		t.Fatal("Expected CFA360 to be in the registry")
	}
	if rule.Years != 10 {
		t.Errorf("Expected CFA360 to retain for 10 years, got %d", rule.Years)
	}
	if len(rule.LookupHints) == 0 {
		t.Error("Expected CFA360 to have lookup hints")
	}
}

func TestLookupUnknownCode(t *testing.T) {
	registry := NewRegistry()

	_, ok := registry.Lookup("ZZZ_UNKNOWN")
	if ok {
		t.Error("Expected ZZZ_UNKNOWN to be absent from the registry")
	}
}

func TestAllCodesHaveValidRules(t *testing.T) {
	registry := NewRegistry()

	codes := registry.AllCodes()
	if len(codes) == 0 {
		t.Fatal("Expected the registry to contain codes")
	}

	for _, code := range codes {
		rule, ok := registry.Lookup(code)
		if !ok {
			t.Errorf("Expected Lookup to succeed for code %s from AllCodes", code)
			continue
		}
		if rule.Years <= 0 {
			t.Errorf("Expected code %s to have positive retention years, got %d", code, rule.Years)
		}
		if len(rule.LookupHints) == 0 {
			t.Errorf("Expected code %s to have non-empty lookup hints", code)
		}
		if rule.Description == "" {
			t.Errorf("Expected code %s to have a description", code)
		}
	}
}

func TestAllCodesStableOrder(t *testing.T) {
	registry := NewRegistry()

	first := registry.AllCodes()
	second := registry.AllCodes()

	if len(first) != len(second) {
		t.Fatalf("Expected AllCodes to return the same number of codes, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Expected AllCodes order to be stable, position %d differs: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestHintsFor(t *testing.T) {
	registry := NewRegistry()

	hints := registry.HintsFor("LEG460")
	if len(hints) == 0 {
		t.Fatal("Expected LEG460 to have hints")
	}
	if hints[0] != "active_flag" {
		t.Errorf("Expected first LEG460 hint to be active_flag, got %s", hints[0])
	}

	hints = registry.HintsFor("ZZZ_UNKNOWN")
	if len(hints) != 0 {
		t.Errorf("Expected empty hints for unknown code, got %v", hints)
	}
}

func TestEveryBasisIsAssignable(t *testing.T) {
	registry := NewRegistry()

	bases := make(map[string]bool)
	for _, code := range registry.AllCodes() {
		rule, _ := registry.Lookup(code)
		bases[string(rule.Basis)] = true
	}

	for _, basis := range []string{"creation_based", "active_plus", "event_based"} {
		if !bases[basis] {
			t.Errorf("Expected at least one code with basis %s", basis)
		}
	}
}
