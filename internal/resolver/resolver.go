package resolver

import (
	"log"
	"strings"

	"coinquery/internal/catalog"
	"coinquery/internal/domain"
)

// Resolver turns a user-supplied coin name or symbol into a catalog record.
// Lookup is a linear scan in catalog order; the first record whose symbol or
// name matches case-insensitively wins.
type Resolver struct {
	catalog   domain.Catalog
	suggester catalog.Suggester
	autofind  bool
	debug     bool
}

type Option func(*Resolver)

// WithSuggester enables "did you mean" suggestions on failed lookups.
func WithSuggester(s catalog.Suggester) Option {
	return func(r *Resolver) { r.suggester = s }
}

// WithoutAutofind makes Resolve return the raw input as the coin id.
func WithoutAutofind() Option {
	return func(r *Resolver) { r.autofind = false }
}

func WithDebug(debug bool) Option {
	return func(r *Resolver) { r.debug = debug }
}

func New(c domain.Catalog, opts ...Option) *Resolver {
	r := &Resolver{catalog: c, autofind: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the first catalog record matching input. On a miss it fails
// with an unknown-coin error carrying the nearest known token when a
// suggester is configured.
func (r *Resolver) Resolve(input string) (domain.CoinRecord, error) {
	if !r.autofind {
		return domain.CoinRecord{ID: input}, nil
	}

	s := strings.ToLower(strings.TrimSpace(input))
	if r.debug {
		log.Printf("resolver: s=%q", s)
	}

	for _, coin := range r.catalog {
		if strings.ToLower(coin.Symbol) == s || strings.ToLower(coin.Name) == s {
			if r.debug {
				log.Printf("resolver: r=%+v", coin)
			}
			return coin, nil
		}
	}

	if r.suggester != nil {
		return domain.CoinRecord{}, domain.UnknownCoin(r.suggester.Nearest(input))
	}
	return domain.CoinRecord{}, domain.UnknownCoin("")
}

func (r *Resolver) ResolveID(input string) (string, error) {
	coin, err := r.Resolve(input)
	if err != nil {
		return "", err
	}
	return coin.ID, nil
}

func (r *Resolver) ResolveName(input string) (string, error) {
	coin, err := r.Resolve(input)
	if err != nil {
		return "", err
	}
	return coin.Name, nil
}
