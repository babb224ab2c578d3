//
//  internal/requestinfo/requestinfo.go
//
//  Per-request visitor hints for relay logs: client IP, coarse location,
//  browser family, device class, bot flag, and primary language.  The
//  struct is inert and safe to log.  Field values from the form itself
//  never pass through here.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (optional MaxMind lookup)
//

package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
)

// Info holds what the relay knows about the visitor behind one request.
type Info struct {
	IP         net.IP
	CountryISO string // empty without a GeoLite2 database
	Browser    string // "Chrome", "Firefox", "Safari", …
	Device     string // "Computer", "Phone", "Tablet", "Bot", …
	IsBot      bool
	Lang       string // first Accept-Language tag
}

// LogFields flattens Info into zap key/value pairs.
func (i *Info) LogFields() []any {
	if i == nil {
		return nil
	}
	f := []any{"ip", i.IP.String(), "browser", i.Browser, "device", i.Device, "bot", i.IsBot, "lang", i.Lang}
	if i.CountryISO != "" {
		f = append(f, "country", i.CountryISO)
	}
	return f
}

type ctxKey struct{}

// FromContext returns the *Info stored by Enricher, or nil.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

/*──────────────────────────── enricher ─────────────────────────────────────*/

// Enricher attaches *Info to each request.  The zero value skips geo.
type Enricher struct {
	geo *geoip2.Reader
}

// New opens the GeoLite2 database at geoDB.  An empty path disables
// location lookups.
func New(geoDB string) (*Enricher, error) {
	if geoDB == "" {
		return &Enricher{}, nil
	}
	r, err := geoip2.Open(geoDB)
	if err != nil {
		return nil, err
	}
	return &Enricher{geo: r}, nil
}

// Close releases the geo database.
func (e *Enricher) Close() error {
	if e == nil || e.geo == nil {
		return nil
	}
	return e.geo.Close()
}

// Middleware parses the request once and forwards it with *Info in the
// context.  Run it after chi's RealIP so RemoteAddr is the client.
func (e *Enricher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := e.Describe(r)
		zap.S().Debugw("request info", append(info.LogFields(), "path", r.URL.Path)...)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, info)))
	})
}

// Describe builds Info for r without touching its context.
func (e *Enricher) Describe(r *http.Request) *Info {
	ua := uasurfer.Parse(r.UserAgent())
	info := &Info{
		IP:      clientIP(r.RemoteAddr),
		Browser: strings.TrimPrefix(ua.Browser.Name.String(), "Browser"),
		Device:  strings.TrimPrefix(ua.DeviceType.String(), "Device"),
		IsBot:   ua.IsBot(),
		Lang:    primaryLang(r.Header.Get("Accept-Language")),
	}
	if e != nil && e.geo != nil && info.IP != nil {
		if rec, err := e.geo.Country(info.IP); err == nil {
			info.CountryISO = rec.Country.IsoCode
		}
	}
	return info
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// clientIP accepts "ip:port" or a bare address, which is what RealIP leaves.
func clientIP(remote string) net.IP {
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	return net.ParseIP(strings.TrimSpace(remote))
}

// primaryLang extracts the first language tag before any ";q=" weight.
func primaryLang(al string) string {
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.TrimSpace(tag)
}
