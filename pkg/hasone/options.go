package hasone

import (
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-hasone/pkg/entity"
)

// Option configures Attach and AddFieldToTab.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	catalog  entity.Catalog
	baseLink string
	readOnly bool
	style    StyleOptions
}

// WithLogger routes debug traces for splicing and linking to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithCatalog supplies schema lookups for the related type (singular name,
// create permission, record count).
func WithCatalog(catalog entity.Catalog) Option {
	return func(cfg *config) {
		cfg.catalog = catalog
	}
}

// WithBaseLink sets the URL the action links are derived from, typically the
// field's own admin endpoint.
func WithBaseLink(link string) Option {
	return func(cfg *config) {
		cfg.baseLink = strings.TrimRight(strings.TrimSpace(link), "/")
	}
}

// WithReadOnly forces the composite into view-only mode regardless of the
// anchor field.
func WithReadOnly(readOnly bool) Option {
	return func(cfg *config) {
		cfg.readOnly = readOnly
	}
}

// WithStyle overrides the generated stylesheet values.
func WithStyle(style StyleOptions) Option {
	return func(cfg *config) {
		cfg.style = style.withDefaults()
	}
}

func newConfig(options []Option) config {
	cfg := config{style: DefaultStyleOptions()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg
}
