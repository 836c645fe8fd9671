package providers

import "testing"

func TestParseProviderList(t *testing.T) {
	refs := ParseProviderList("anthropic:prod | openai |mock")
	if len(refs) != 3 {
		t.Fatalf("want 3 refs, got %d", len(refs))
	}
	if refs[0].Name != "anthropic" || refs[0].KeyAlias != "prod" {
		t.Fatalf("bad first ref: %+v", refs[0])
	}
	if refs[1].Name != "openai" || refs[1].KeyAlias != "" {
		t.Fatalf("bad second ref: %+v", refs[1])
	}
}

func TestParseProviderListTrimsAliasWhitespace(t *testing.T) {
	refs := ParseProviderList("anthropic : prod ")
	if len(refs) != 1 {
		t.Fatalf("want 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "anthropic" || refs[0].KeyAlias != "prod" {
		t.Fatalf("bad ref: %+v", refs[0])
	}
}

func TestParseProviderListEmptyFallsBackToMock(t *testing.T) {
	refs := ParseProviderList("  ")
	if len(refs) != 1 || refs[0].Name != "mock" {
		t.Fatalf("want mock fallback, got %+v", refs)
	}
}
