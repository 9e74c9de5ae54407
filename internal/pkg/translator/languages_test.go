package translator

import "testing"

func TestLanguageByCode(t *testing.T) {
	if _, ok := LanguageByCode("es"); !ok {
		t.Fatalf("expected es to be in the catalog")
	}
	if l, ok := LanguageByCode(" FR "); !ok || l.Code != "fr" {
		t.Fatalf("expected lookup to normalize case and whitespace, got %+v ok=%v", l, ok)
	}
	if _, ok := LanguageByCode("xx"); ok {
		t.Fatalf("expected xx to be rejected")
	}
	if _, ok := LanguageByCode(""); ok {
		t.Fatalf("expected empty code to be rejected")
	}
}

func TestLanguageName(t *testing.T) {
	if got := LanguageName("ja"); got != "Japanese" {
		t.Fatalf("LanguageName(ja) = %q", got)
	}
	if got := LanguageName("xx"); got != "xx" {
		t.Fatalf("unknown codes pass through, got %q", got)
	}
}

func TestCatalogSize(t *testing.T) {
	if len(SupportedLanguages) != 20 {
		t.Fatalf("catalog has %d entries, want 20", len(SupportedLanguages))
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "Hello, how are you?", want: "en"},
		{text: "¿Cómo estás?", want: "es"},
		{text: "Être ou ne pas être", want: "fr"},
		{text: "Straße überqueren", want: "de"},
		{text: "Привет, как дела?", want: "ru"},
		{text: "こんにちは", want: "ja"},
		{text: "안녕하세요", want: "ko"},
		{text: "مرحبا", want: "ar"},
		{text: "नमस्ते", want: "hi"},
		{text: "สวัสดี", want: "th"},
		{text: "1234 !?", want: "en"},
		{text: "", want: "en"},
	}

	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.want {
			t.Fatalf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDetectLanguageHanRangeMapsToJapaneseFirst(t *testing.T) {
	// The shared CJK ideograph range matches the Japanese rule before the
	// Chinese one.
	if got := DetectLanguage("日本語"); got != "ja" {
		t.Fatalf("DetectLanguage(日本語) = %q, want ja", got)
	}
}
