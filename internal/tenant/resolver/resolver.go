package resolver

import (
	"context"
	"net"
	"strings"

	"github.com/celebreapp/celebre/internal/config"
	"github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	StrategySubdomain = "subdomain"
	StrategyPath      = "path"
	StrategyQuery     = "query"
	StrategyDomain    = "domain"
)

// reservedSlugs are path and subdomain labels that can never name a tenant.
var reservedSlugs = map[string]bool{
	"admin":                 true,
	"login":                 true,
	"logout":                true,
	"confirmar-presenca":    true,
	"checkin":               true,
	"fotos":                 true,
	"cha-de-casa-nova":      true,
	"feature-not-available": true,
	"www":                   true,
	"api":                   true,
}

type Params struct {
	fx.In

	Config  *config.Config
	Log     *zap.Logger
	Service domain.Service
	Local   *LocalConfig
}

// Resolver identifies the tenant of an incoming request by trying each
// configured strategy in order and falling back to the default tenant.
type Resolver struct {
	cfg     *config.Config
	log     *zap.Logger
	service domain.Service
	local   *LocalConfig
	order   []string
}

func New(p Params) *Resolver {
	order := p.Config.ResolverOrder
	if len(order) == 0 {
		order = []string{StrategySubdomain, StrategyPath, StrategyDomain}
	}
	return &Resolver{
		cfg:     p.Config,
		log:     p.Log.Named("tenant.resolver"),
		service: p.Service,
		local:   p.Local,
		order:   order,
	}
}

type Request struct {
	Host  string
	Path  string
	Query func(string) string
}

// Resolve walks the strategy order and returns the first tenant that loads.
// It never returns nil: when nothing matches it falls back to the default
// tenant, and failing that to the static local config.
func (r *Resolver) Resolve(ctx context.Context, req Request) *domain.Config {
	for _, strategy := range r.order {
		candidate, byDomain := r.extract(strategy, req)
		if candidate == "" {
			continue
		}

		var (
			cfg *domain.Config
			err error
		)
		if byDomain {
			cfg, err = r.service.LoadByDomain(ctx, candidate)
		} else {
			cfg, err = r.service.LoadBySlug(ctx, candidate)
		}
		if err != nil {
			r.log.Warn("tenant strategy failed",
				zap.String("strategy", strategy),
				zap.String("candidate", candidate),
				zap.Error(err))
			continue
		}
		if cfg != nil {
			return cfg
		}
	}

	if r.cfg.DefaultTenantSlug != "" {
		cfg, err := r.service.LoadBySlug(ctx, r.cfg.DefaultTenantSlug)
		if err == nil && cfg != nil {
			return cfg
		}
	}

	return r.local.Config()
}

func (r *Resolver) extract(strategy string, req Request) (candidate string, byDomain bool) {
	switch strategy {
	case StrategySubdomain:
		return r.subdomain(req.Host), false
	case StrategyPath:
		return r.pathSegment(req.Path), false
	case StrategyQuery:
		param := r.cfg.TenantQueryParam
		if param == "" {
			param = "tenant"
		}
		return allowed(req.Query(param)), false
	case StrategyDomain:
		return r.customDomain(req.Host), true
	}
	return "", false
}

func (r *Resolver) subdomain(host string) string {
	host = stripPort(host)
	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return ""
	}
	if r.cfg.BaseDomain != "" {
		if !strings.HasSuffix(host, "."+r.cfg.BaseDomain) {
			return ""
		}
		prefix := strings.TrimSuffix(host, "."+r.cfg.BaseDomain)
		if strings.Contains(prefix, ".") {
			return ""
		}
		return allowed(prefix)
	}
	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return ""
	}
	return allowed(labels[0])
}

func (r *Resolver) pathSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return ""
	}
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return allowed(path)
}

// customDomain yields the whole host when it is neither the base domain
// nor one of its subdomains, so a vanity domain can map to a tenant.
func (r *Resolver) customDomain(host string) string {
	host = stripPort(host)
	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return ""
	}
	if r.cfg.BaseDomain != "" {
		if host == r.cfg.BaseDomain || strings.HasSuffix(host, "."+r.cfg.BaseDomain) {
			return ""
		}
	}
	return host
}

func allowed(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || reservedSlugs[slug] {
		return ""
	}
	return slug
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// Middleware resolves the tenant for every request and stores its config
// in the request context.
func (r *Resolver) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := r.Resolve(c.Request.Context(), Request{
			Host:  c.Request.Host,
			Path:  c.Request.URL.Path,
			Query: c.Query,
		})
		ctx := tenantctx.WithTenant(c.Request.Context(), cfg)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
