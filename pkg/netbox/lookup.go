package netbox

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Lookup resolves reference objects (site, role, manufacturer, device
// type, platform) to NetBox ids, creating any that do not exist yet.
// Results are cached for the life of the Lookup, so a fleet of
// devices in the same site costs one round trip.
type Lookup struct {
	c  *Client
	mu sync.Mutex
	// cache keys are path|slug
	cache map[string]int
}

// NewLookup builds a Lookup over an existing client.
func NewLookup(c *Client) *Lookup {
	return &Lookup{c: c, cache: make(map[string]int)}
}

// Site returns the id of the named site, creating it if missing.
func (l *Lookup) Site(ctx context.Context, name string) (int, error) {
	return l.getOrCreate(ctx, sitesPath, Slugify(name), map[string]any{
		"name": name,
		"slug": Slugify(name),
	})
}

// Role returns the id of the named device role, creating it if missing.
func (l *Lookup) Role(ctx context.Context, name string) (int, error) {
	return l.getOrCreate(ctx, rolesPath, Slugify(name), map[string]any{
		"name": name,
		"slug": Slugify(name),
	})
}

// Manufacturer returns the id of the named manufacturer, creating it
// if missing.
func (l *Lookup) Manufacturer(ctx context.Context, name string) (int, error) {
	return l.getOrCreate(ctx, manufacturersPath, Slugify(name), map[string]any{
		"name": name,
		"slug": Slugify(name),
	})
}

// Platform returns the id of the named platform, creating it if
// missing.
func (l *Lookup) Platform(ctx context.Context, name string) (int, error) {
	return l.getOrCreate(ctx, platformsPath, Slugify(name), map[string]any{
		"name": name,
		"slug": Slugify(name),
	})
}

// Tenant returns the id of the named tenant, creating it if missing.
func (l *Lookup) Tenant(ctx context.Context, name string) (int, error) {
	return l.getOrCreate(ctx, tenantsPath, Slugify(name), map[string]any{
		"name": name,
		"slug": Slugify(name),
	})
}

// DeviceType returns the id of the device type with the given model,
// creating it if missing. Creation resolves the manufacturer first:
// the type cannot be written without its parent's id.
func (l *Lookup) DeviceType(ctx context.Context, manufacturer, model string) (int, error) {
	slug := Slugify(model)
	if id, ok := l.cached(deviceTypesPath, slug); ok {
		return id, nil
	}
	if id, ok, err := l.find(ctx, deviceTypesPath, slug); err != nil {
		return 0, err
	} else if ok {
		l.remember(deviceTypesPath, slug, id)
		return id, nil
	}

	mfrID, err := l.Manufacturer(ctx, manufacturer)
	if err != nil {
		return 0, err
	}
	id, err := l.create(ctx, deviceTypesPath, map[string]any{
		"manufacturer": mfrID,
		"model":        model,
		"slug":         slug,
	})
	if err != nil {
		return 0, err
	}
	l.remember(deviceTypesPath, slug, id)
	return id, nil
}

func (l *Lookup) getOrCreate(ctx context.Context, path, slug string, body map[string]any) (int, error) {
	if id, ok := l.cached(path, slug); ok {
		return id, nil
	}
	if id, ok, err := l.find(ctx, path, slug); err != nil {
		return 0, err
	} else if ok {
		l.remember(path, slug, id)
		return id, nil
	}
	id, err := l.create(ctx, path, body)
	if err != nil {
		return 0, err
	}
	l.remember(path, slug, id)
	return id, nil
}

func (l *Lookup) cached(path, slug string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.cache[path+"|"+slug]
	return id, ok
}

func (l *Lookup) remember(path, slug string, id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[path+"|"+slug] = id
}

func (l *Lookup) find(ctx context.Context, path, slug string) (int, bool, error) {
	refs, err := listAll[Ref](ctx, l.c, path, url.Values{"slug": []string{slug}})
	if err != nil {
		return 0, false, err
	}
	if len(refs) == 0 {
		return 0, false, nil
	}
	return refs[0].ID, true, nil
}

func (l *Lookup) create(ctx context.Context, path string, body map[string]any) (int, error) {
	var out struct {
		ID int `json:"id"`
	}
	if err := l.c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// Slugify converts a display name into a NetBox slug: lowercase
// alphanumerics joined by single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}
