package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dkoval/suipaper/internal/entity"
)

// Config carries everything the simulator needs at startup. The catalog is
// static for the whole run; it is not reloadable.
type Config struct {
	InitialCash decimal.Decimal
	PriceFloor  decimal.Decimal
	ListenAddr  string
	Catalog     []entity.Token
}

type configTmp struct {
	InitialCash string     `yaml:"initial_cash,omitempty"`
	PriceFloor  string     `yaml:"price_floor,omitempty"`
	ListenAddr  string     `yaml:"listen,omitempty"`
	Catalog     []tokenTmp `yaml:"catalog"`
}

type tokenTmp struct {
	Symbol     string `yaml:"symbol"`
	Name       string `yaml:"name"`
	Price      string `yaml:"price"`
	Volatility string `yaml:"volatility,omitempty"`
}

const (
	defaultInitialCash = 1000
	defaultListenAddr  = ":8077"
	defaultVolatility  = "0.05"
	defaultPriceFloor  = "0.0001"
)

// Get loads configuration from the file given via --config, falling back to
// the built-in defaults when no flag is provided.
func Get() (Config, error) {
	path := flag.String("config", "", "path to yaml config")
	flag.Parse()
	if *path == "" {
		return Default(), nil
	}
	return getYaml(*path)
}

// Default is the built-in setup: a small memecoin catalog, 1000 units of
// starting cash and ±5% per-tick volatility.
func Default() Config {
	floor, _ := decimal.NewFromString(defaultPriceFloor)
	vol, _ := decimal.NewFromString(defaultVolatility)
	return Config{
		InitialCash: decimal.NewFromInt(defaultInitialCash),
		PriceFloor:  floor,
		ListenAddr:  defaultListenAddr,
		Catalog: []entity.Token{
			{Symbol: "MOON", Name: "Moon", Price: decimal.NewFromFloat(0.5), Volatility: vol},
			{Symbol: "STAR", Name: "Star", Price: decimal.NewFromFloat(0.75), Volatility: vol},
			{Symbol: "ROCKET", Name: "Rocket", Price: decimal.NewFromFloat(1.25), Volatility: vol},
			{Symbol: "GALAXY", Name: "Galaxy", Price: decimal.NewFromFloat(0.9), Volatility: vol},
		},
	}
}

func getYaml(path string) (Config, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configTmp
	if err := yaml.Unmarshal(payload, &tmp); err != nil {
		return Config{}, err
	}
	if len(tmp.Catalog) == 0 {
		return Config{}, fmt.Errorf("yaml config must define at least one catalog token")
	}

	cfg := Config{ListenAddr: tmp.ListenAddr}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}

	cfg.InitialCash = decimal.NewFromInt(defaultInitialCash)
	if tmp.InitialCash != "" {
		cfg.InitialCash, err = decimal.NewFromString(tmp.InitialCash)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'initial_cash' param in yaml config: %w", err)
		}
	}
	if cfg.InitialCash.LessThanOrEqual(decimal.Zero) {
		return Config{}, fmt.Errorf("'initial_cash' must be positive, got %s", cfg.InitialCash.String())
	}

	floorStr := tmp.PriceFloor
	if floorStr == "" {
		floorStr = defaultPriceFloor
	}
	cfg.PriceFloor, err = decimal.NewFromString(floorStr)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'price_floor' param in yaml config: %w", err)
	}

	for _, t := range tmp.Catalog {
		token, err := tokenFromTmp(t)
		if err != nil {
			return Config{}, err
		}
		cfg.Catalog = append(cfg.Catalog, token)
	}
	return cfg, nil
}

func tokenFromTmp(t tokenTmp) (entity.Token, error) {
	if t.Symbol == "" {
		return entity.Token{}, fmt.Errorf("catalog token without 'symbol' in yaml config")
	}
	name := t.Name
	if name == "" {
		name = t.Symbol
	}

	price, err := decimal.NewFromString(t.Price)
	if err != nil {
		return entity.Token{}, fmt.Errorf("incorrect 'price' param for token %s in yaml config: %w", t.Symbol, err)
	}

	volStr := t.Volatility
	if volStr == "" {
		volStr = defaultVolatility
	}
	vol, err := decimal.NewFromString(volStr)
	if err != nil {
		return entity.Token{}, fmt.Errorf("incorrect 'volatility' param for token %s in yaml config: %w", t.Symbol, err)
	}

	return entity.Token{Symbol: t.Symbol, Name: name, Price: price, Volatility: vol}, nil
}
