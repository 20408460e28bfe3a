// Package match resolves free-text company names, tickers, and insider names
// to canonical identities using an injected entity registry.
package match

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Korpiaveli/filingsflow-sub000/internal/config"
)

// Company is a canonical company identity keyed by ticker.
type Company struct {
	Ticker string `mapstructure:"ticker"`
	CIK    string `mapstructure:"cik"`
	Name   string `mapstructure:"name"`
}

// Insider is a known insider and their employer.
type Insider struct {
	Name       string `mapstructure:"name"`
	CIK        string `mapstructure:"cik"`
	CompanyCIK string `mapstructure:"company_cik"`
	Title      string `mapstructure:"title"`
}

// Registry holds the reference data the matcher consults. It replaces the
// hardcoded lookup tables of earlier revisions so coverage can grow without
// redeploying matching logic.
type Registry struct {
	companiesByTicker map[string]Company
	companiesByCIK    map[string]Company
	insidersByName    map[string]Insider
}

// NewRegistry builds a registry from explicit entries. Ticker and name keys
// are case-insensitive.
func NewRegistry(companies []Company, insiders []Insider) *Registry {
	r := &Registry{
		companiesByTicker: make(map[string]Company, len(companies)),
		companiesByCIK:    make(map[string]Company, len(companies)),
		insidersByName:    make(map[string]Insider, len(insiders)),
	}
	for _, c := range companies {
		if c.Ticker == "" {
			continue
		}
		r.companiesByTicker[strings.ToUpper(c.Ticker)] = c
		if c.CIK != "" {
			r.companiesByCIK[c.CIK] = c
		}
	}
	for _, i := range insiders {
		if i.Name == "" {
			continue
		}
		r.insidersByName[NormalizeName(i.Name)] = i
	}
	return r
}

// LoadRegistry materialises a registry from configuration, merging inline
// entries with entries read from the registry file when one is configured.
func LoadRegistry(cfg config.RegistryConfig) (*Registry, error) {
	companies := make([]Company, 0, len(cfg.Companies))
	insiders := make([]Insider, 0, len(cfg.Insiders))

	for _, c := range cfg.Companies {
		companies = append(companies, Company{Ticker: c.Ticker, CIK: c.CIK, Name: c.Name})
	}
	for _, i := range cfg.Insiders {
		insiders = append(insiders, Insider{Name: i.Name, CIK: i.CIK, CompanyCIK: i.CompanyCIK, Title: i.Title})
	}

	if cfg.Path != "" {
		fileCompanies, fileInsiders, err := readRegistryFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		companies = append(companies, fileCompanies...)
		insiders = append(insiders, fileInsiders...)
	}

	return NewRegistry(companies, insiders), nil
}

func readRegistryFile(path string) ([]Company, []Insider, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read registry file: %w", err)
	}

	var payload struct {
		Companies []Company `mapstructure:"companies"`
		Insiders  []Insider `mapstructure:"insiders"`
	}
	if err := v.Unmarshal(&payload); err != nil {
		return nil, nil, fmt.Errorf("unmarshal registry file: %w", err)
	}
	return payload.Companies, payload.Insiders, nil
}

// CompanyForTicker looks up the canonical company for a ticker.
func (r *Registry) CompanyForTicker(ticker string) (Company, bool) {
	c, ok := r.companiesByTicker[strings.ToUpper(ticker)]
	return c, ok
}

// CompanyForCIK looks up the canonical company for a CIK.
func (r *Registry) CompanyForCIK(cik string) (Company, bool) {
	c, ok := r.companiesByCIK[cik]
	return c, ok
}

// KnownInsider looks up a known insider by display name.
func (r *Registry) KnownInsider(name string) (Insider, bool) {
	i, ok := r.insidersByName[NormalizeName(name)]
	return i, ok
}

// KnownInsiderCompany returns the employer of a known insider.
func (r *Registry) KnownInsiderCompany(name string) (Company, bool) {
	insider, ok := r.KnownInsider(name)
	if !ok {
		return Company{}, false
	}
	return r.CompanyForCIK(insider.CompanyCIK)
}

// IsInsiderOfCompany reports whether a named insider is known to work at the
// company identified by cik.
func (r *Registry) IsInsiderOfCompany(name, cik string) bool {
	insider, ok := r.KnownInsider(name)
	return ok && insider.CompanyCIK == cik
}
