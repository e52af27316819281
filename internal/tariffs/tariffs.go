package tariffs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrUnknownTariff = errors.New("unknown tariff")

// Tariff is a fixed subscription tier: Days of access for Price
// Telegram Stars. Definitions are immutable after the catalog is built.
type Tariff struct {
	ID    string
	Days  int
	Price int
}

func (t Tariff) Duration() time.Duration {
	return time.Duration(t.Days) * 24 * time.Hour
}

type Catalog struct {
	order []string
	byID  map[string]Tariff
}

func NewCatalog(defs ...Tariff) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Tariff, len(defs))}
	for _, t := range defs {
		t.ID = strings.ToLower(strings.TrimSpace(t.ID))
		if t.ID == "" {
			return nil, fmt.Errorf("tariff with empty id")
		}
		if _, exists := c.byID[t.ID]; exists {
			return nil, fmt.Errorf("duplicate tariff id: %s", t.ID)
		}
		if t.Days <= 0 || t.Price <= 0 {
			return nil, fmt.Errorf("tariff %s: days and price must be positive", t.ID)
		}
		c.byID[t.ID] = t
		c.order = append(c.order, t.ID)
	}
	return c, nil
}

// Default builds the catalog the bot ships with. Prices and durations
// can be overridden per tariff via TARIFF_<ID>_STARS and
// TARIFF_<ID>_DAYS.
func Default() *Catalog {
	c, err := NewCatalog(
		Tariff{ID: "basic", Days: getEnvInt("TARIFF_BASIC_DAYS", 30), Price: getEnvInt("TARIFF_BASIC_STARS", 50)},
		Tariff{ID: "premium", Days: getEnvInt("TARIFF_PREMIUM_DAYS", 90), Price: getEnvInt("TARIFF_PREMIUM_STARS", 200)},
	)
	if err != nil {
		panic(fmt.Sprintf("built-in tariff catalog: %v", err))
	}
	return c
}

func (c *Catalog) Get(id string) (Tariff, error) {
	t, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Tariff{}, fmt.Errorf("%w: %q", ErrUnknownTariff, id)
	}
	return t, nil
}

// List returns tariffs in definition order.
func (c *Catalog) List() []Tariff {
	out := make([]Tariff, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func getEnvInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
