package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range []string{"en-US", "pt-BR", "de-DE"} {
		if !bundle.HasLocale(locale) {
			t.Fatalf("expected locale %s", locale)
		}
	}
	if bundle.HasLocale("fr-FR") {
		t.Fatal("unexpected locale fr-FR")
	}
}

func TestEmbeddedLocalesAreComplete(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if err := bundle.Validate([]string{"en-US", "pt-BR", "de-DE"}, true); err != nil {
		t.Fatalf("validate embedded catalogs: %v", err)
	}
}

func TestLoadFromFSRejectsKeyOutsideNamespace(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/NotFound.yaml"), `locale: "en-US"
namespace: "NotFound"
messages:
  "Errors.title": "nope"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "must live under namespace") {
		t.Fatalf("error = %q, want namespace error", err.Error())
	}
}

func TestLoadFromFSRejectsMismatchedPathMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		content string
		want    string
	}{
		{
			name:    "locale",
			path:    "locales/en-US/NotFound.yaml",
			content: "locale: \"pt-BR\"\nnamespace: \"NotFound\"\nmessages:\n  \"NotFound.title\": \"x\"\n",
			want:    "must match path locale",
		},
		{
			name:    "namespace",
			path:    "locales/en-US/NotFound.yaml",
			content: "locale: \"en-US\"\nnamespace: \"Errors\"\nmessages:\n  \"Errors.title\": \"x\"\n",
			want:    "must match filename namespace",
		},
		{
			name:    "empty messages",
			path:    "locales/en-US/NotFound.yaml",
			content: "locale: \"en-US\"\nnamespace: \"NotFound\"\n",
			want:    "messages map is required",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fsys := fstest.MapFS{tc.path: &fstest.MapFile{Data: []byte(tc.content)}}
			_, err := LoadFromFS(fsys)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %q, want substring %q", err.Error(), tc.want)
			}
		})
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/pt-BR/NotFound.yaml": &fstest.MapFile{Data: []byte("locale: \"pt-BR\"\nnamespace: \"NotFound\"\nmessages:\n  \"NotFound.title\": \"x\"\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestLoadFromFSEmpty(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFS(fstest.MapFS{})
	if !errors.Is(err, ErrNoCatalogs) {
		t.Fatalf("error = %v, want ErrNoCatalogs", err)
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	got, ok := bundle.Message("fr-FR", "Errors.title")
	if !ok || got != "Something went wrong" {
		t.Fatalf("Message(fr-FR) = (%q, %v), want base Errors.title", got, ok)
	}
	if _, ok := bundle.Message("pt-BR", "Errors.nope"); ok {
		t.Fatal("unknown key resolved")
	}
}

func TestMissingKeysAndValidate(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/en-US/NotFound.yaml": &fstest.MapFile{Data: []byte("locale: \"en-US\"\nnamespace: \"NotFound\"\nmessages:\n  \"NotFound.title\": \"Page not found\"\n  \"NotFound.description\": \"Gone\"\n")},
		"locales/de-DE/NotFound.yaml": &fstest.MapFile{Data: []byte("locale: \"de-DE\"\nnamespace: \"NotFound\"\nmessages:\n  \"NotFound.title\": \"Seite nicht gefunden\"\n")},
	}
	bundle, err := LoadFromFS(fsys)
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}

	missing := bundle.MissingKeys("de-DE")
	if len(missing) != 1 || missing[0] != "NotFound.description" {
		t.Fatalf("missing = %v, want [NotFound.description]", missing)
	}
	if err := bundle.Validate([]string{"en-US", "de-DE"}, false); err != nil {
		t.Fatalf("lenient validate: %v", err)
	}
	if err := bundle.Validate([]string{"en-US", "de-DE"}, true); err == nil {
		t.Fatal("expected complete validation to fail")
	}
	if err := bundle.Validate([]string{"fr-FR"}, false); err == nil {
		t.Fatal("expected unknown locale to fail validation")
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
