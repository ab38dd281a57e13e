package server

import (
	"time"

	variables "github.com/hanpama/gqlcoerce/internal/variables"
)

type Options struct {
	// Timeout applies when the incoming request context has no deadline.
	// 0 means no timeout.
	Timeout time.Duration

	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CORS is disabled when AllowedOrigins is empty.
	CORS CORSOptions

	// MetadataHeaders lists HTTP headers forwarded into outgoing gRPC
	// metadata. Names are case-insensitive.
	MetadataHeaders []string

	// Coercion tunes variable and argument coercion.
	Coercion []variables.Option
}

// CORSOptions holds simple CORS settings.
type CORSOptions struct {
	AllowedOrigins []string
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option           { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                           { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option              { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCORS(origins ...string) Option            { return func(o *Options) { o.CORS.AllowedOrigins = origins } }
func WithMetadataHeaders(headers ...string) Option { return func(o *Options) { o.MetadataHeaders = headers } }
func WithCoercion(opts ...variables.Option) Option { return func(o *Options) { o.Coercion = opts } }
