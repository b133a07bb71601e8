package challenge

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/wa-otp-auth/internal/domain"
)

// RoleCache maps application client ids to their resolved role. The set of
// client ids in a deployment is small and static, so entries are never
// evicted. Safe for concurrent use.
type RoleCache struct {
	mu    sync.Mutex
	roles map[string]domain.ClientRole
}

func NewRoleCache() *RoleCache {
	return &RoleCache{roles: make(map[string]domain.ClientRole)}
}

func (c *RoleCache) Get(clientID string) (domain.ClientRole, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	role, ok := c.roles[clientID]
	return role, ok
}

func (c *RoleCache) Set(clientID string, role domain.ClientRole) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles[clientID] = role
}

// RoleResolver classifies a caller application as the signup or login client
// by its registered name in the directory's client registry. Lookup failures
// resolve to UNKNOWN, which the orchestrator treats as deny; failures are
// not cached so a transient registry error only costs a redundant lookup.
type RoleResolver struct {
	dir   Directory
	cache *RoleCache
}

func NewRoleResolver(dir Directory, cache *RoleCache) *RoleResolver {
	return &RoleResolver{dir: dir, cache: cache}
}

func (r *RoleResolver) Resolve(ctx context.Context, poolID, clientID string) domain.ClientRole {
	if clientID == "" {
		return domain.RoleUnknown
	}
	if role, ok := r.cache.Get(clientID); ok {
		return role
	}

	name, err := r.dir.DescribeClientName(ctx, poolID, clientID)
	if err != nil {
		slog.Error("client registry lookup failed", "client_id", clientID, "err", err)
		return domain.RoleUnknown
	}

	role := classifyClientName(name)
	r.cache.Set(clientID, role)
	return role
}

func classifyClientName(name string) domain.ClientRole {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "signup"):
		return domain.RoleSignup
	case strings.Contains(lower, "login"):
		return domain.RoleLogin
	default:
		return domain.RoleUnknown
	}
}
