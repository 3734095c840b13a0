package i18n

import "testing"

func TestCatalogsLoad(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("catalogs: %v", err)
	}
}

func TestTranslateFallbacks(t *testing.T) {
	cases := []struct {
		name string
		lang string
		key  string
		want string
	}{
		{"own language", "ru", "tour.next", "Далее"},
		{"falls back to english", "kr", "btour.step1.title", "Canvas"},
		{"unknown language uses english", "de", "tour.finish", "Finish"},
		{"unknown key returns key", "en", "missing.key", "missing.key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Translate(tc.lang, tc.key, nil); got != tc.want {
				t.Fatalf("Translate(%q, %q) = %q, want %q", tc.lang, tc.key, got, tc.want)
			}
		})
	}
}

func TestTranslateParams(t *testing.T) {
	got := For("en")("tour.counter", map[string]any{"current": 2, "total": 5})
	if got != "2 / 5" {
		t.Fatalf("unexpected counter %q", got)
	}
	if got := Translate("fr", "trial.remaining", map[string]any{"count": 3}); got != "Il vous reste 3 exécutions gratuites" {
		t.Fatalf("unexpected french string %q", got)
	}
}

func TestSupportedLanguages(t *testing.T) {
	if len(Languages()) != 6 {
		t.Fatalf("expected six languages, got %d", len(Languages()))
	}
	for _, code := range []string{"en", "ru", "ua", "es", "kr", "fr"} {
		if !Supported(code) {
			t.Fatalf("%s should be supported", code)
		}
	}
	if Supported("de") || Supported("") {
		t.Fatal("unexpected language accepted")
	}
}
