// internal/requestinfo/requestinfo_test.go
//
// Unit-tests for visitor hints.  Geo stays disabled; no database ships
// with the repo.

package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func TestDescribe_Browser(t *testing.T) {
	e, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/forms/contact/submit", nil)
	req.RemoteAddr = "203.0.113.9:5123"
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	info := e.Describe(req)
	if info.Browser != "Chrome" || info.Device != "Computer" || info.IsBot {
		t.Errorf("info = %+v", info)
	}
	if info.IP.String() != "203.0.113.9" || info.Lang != "en-US" {
		t.Errorf("ip=%v lang=%q", info.IP, info.Lang)
	}
}

func TestDescribe_Bot(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	if info := (&Enricher{}).Describe(req); !info.IsBot {
		t.Errorf("Googlebot not flagged: %+v", info)
	}
}

func TestMiddleware_StoresInfo(t *testing.T) {
	var got *Info
	h := (&Enricher{}).Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4" // as left by RealIP
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.IP.String() != "198.51.100.4" {
		t.Fatalf("info = %+v", got)
	}
}

func TestPrimaryLang(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"fr":               "fr",
		"es-MX;q=0.8, en":  "es-MX",
		" de-DE , en;q=.5": "de-DE",
	}
	for in, want := range cases {
		if got := primaryLang(in); got != want {
			t.Errorf("primaryLang(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLogFields_CarriesLanguage(t *testing.T) {
	info := &Info{Browser: "Firefox", Device: "Computer", Lang: "fr-CA"}
	f := info.LogFields()
	for i := 0; i+1 < len(f); i += 2 {
		if f[i] == "lang" {
			if f[i+1] != "fr-CA" {
				t.Fatalf("lang = %v", f[i+1])
			}
			return
		}
	}
	t.Fatalf("lang missing from %v", f)
}
