package settings

import "strings"

// Store keys shared with the host application.
const (
	KeyProjectName = "ProjectName"
	KeyGyazoToken  = "GyazoToken"
)

// Getter is read-only access to the shared store.
type Getter interface {
	Get(key string) (string, bool)
}

// Config is the per-invocation view of the shared store.
type Config struct {
	ProjectName string
	UploadToken string
}

// HasToken reports whether an upload token is configured.
func (c Config) HasToken() bool {
	return c.UploadToken != ""
}

// Read snapshots the store. A missing or blank project name falls back to
// defaultProject; a blank token stays empty and means "not configured".
func Read(g Getter, defaultProject string) Config {
	cfg := Config{ProjectName: defaultProject}
	if g == nil {
		return cfg
	}
	if v, ok := g.Get(KeyProjectName); ok && strings.TrimSpace(v) != "" {
		cfg.ProjectName = strings.TrimSpace(v)
	}
	if v, ok := g.Get(KeyGyazoToken); ok {
		cfg.UploadToken = strings.TrimSpace(v)
	}
	return cfg
}

// Static is an in-memory Getter.
type Static map[string]string

// Get implements Getter.
func (s Static) Get(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}
