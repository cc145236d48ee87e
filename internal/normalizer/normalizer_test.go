package normalizer

import (
	"errors"
	"testing"

	"campaignqa-srv/internal/model"
)

func TestParseURL(t *testing.T) {
	t.Run("utm fields and params", func(t *testing.T) {
		cu := ParseURL("run-1", 0, URLEntry{
			URL:    "  https://shop.example.com/sale?utm_source=facebook&utm_medium=cpc&UTM_Campaign=x&utm_campaign=spring&utm_campaign=dup#top ",
			AdName: "ad_1",
		})
		if cu.RawURL[0] == ' ' {
			t.Errorf("RawURL was not trimmed: %q", cu.RawURL)
		}
		if cu.ParseError != "" {
			t.Fatalf("ParseError = %q", cu.ParseError)
		}
		if cu.Parsed.Host != "shop.example.com" || cu.Parsed.Path != "/sale" {
			t.Errorf("host/path = %s %s", cu.Parsed.Host, cu.Parsed.Path)
		}
		if cu.Parsed.UTM.Source != "facebook" || cu.Parsed.UTM.Medium != "cpc" {
			t.Errorf("UTM = %+v", cu.Parsed.UTM)
		}
		if cu.Parsed.UTM.Campaign != "spring" {
			t.Errorf("first value must win, got %q", cu.Parsed.UTM.Campaign)
		}
		if _, ok := cu.Param("UTM_Campaign"); !ok {
			t.Error("keys must be kept case-sensitively")
		}
		if cu.Parsed.Fragment != "top" {
			t.Errorf("Fragment = %q", cu.Parsed.Fragment)
		}
		if cu.AdName != "ad_1" {
			t.Errorf("AdName = %q", cu.AdName)
		}
	})

	t.Run("missing host is kept with an error", func(t *testing.T) {
		cu := ParseURL("run-1", 3, URLEntry{URL: "not a url"})
		if cu.ParseError == "" {
			t.Fatal("expected ParseError")
		}
		if cu.Usable() {
			t.Error("Usable() = true, want false")
		}
		if cu.Position != 3 {
			t.Errorf("Position = %d, want 3", cu.Position)
		}
	})

	t.Run("invalid escape keeps parse error", func(t *testing.T) {
		cu := ParseURL("run-1", 0, URLEntry{URL: "https://exa mple.com/"})
		if cu.ParseError == "" {
			t.Error("expected ParseError for a space in the host")
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Run("no urls", func(t *testing.T) {
		if _, err := Normalize(Input{Platform: model.PlatformMeta}); !errors.Is(err, ErrNoURLs) {
			t.Errorf("err = %v, want ErrNoURLs", err)
		}
	})

	t.Run("no usable url", func(t *testing.T) {
		rc, err := Normalize(Input{
			Platform: model.PlatformMeta,
			URLs:     []URLEntry{{URL: "foo"}, {URL: "/relative/path"}},
		})
		if !errors.Is(err, ErrNoUsableURL) {
			t.Fatalf("err = %v, want ErrNoUsableURL", err)
		}
		if rc == nil || len(rc.URLs) != 2 {
			t.Error("context must still carry the parsed entries")
		}
	})

	t.Run("one bad url does not abort", func(t *testing.T) {
		rc, err := Normalize(Input{
			RunID:            "run-1",
			Platform:         model.PlatformGoogle,
			URLs:             []URLEntry{{URL: "https://example.com/?utm_source=google"}, {URL: "garbage"}},
			IndustryVertical: " saas ",
			Extra:            map[string]string{"daily_budget": "50"},
		})
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if len(rc.URLs) != 2 || rc.URLs[1].ParseError == "" {
			t.Errorf("unexpected URLs: %+v", rc.URLs)
		}
		if rc.IndustryVertical != "saas" {
			t.Errorf("IndustryVertical = %q", rc.IndustryVertical)
		}
		if rc.Extra["daily_budget"] != "50" {
			t.Errorf("Extra not passed through: %v", rc.Extra)
		}
		if rc.URLs[0].RunID != "run-1" {
			t.Errorf("RunID not set on URLs")
		}
	})
}
