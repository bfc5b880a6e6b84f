package service

import (
	"context"
	"net"

	"gw-netwatch/internal/features/probe/domain"
)

// defaultResolver wraps the standard library's net.Resolver.
type defaultResolver struct {
	resolver *net.Resolver
}

// NewResolver creates a resolver that uses the system DNS configuration.
func NewResolver() domain.Resolver {
	return &defaultResolver{
		resolver: net.DefaultResolver,
	}
}

// LookupHost implements domain.Resolver using net.Resolver.
func (r *defaultResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	return r.resolver.LookupHost(ctx, host)
}
