package tariffs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.NotNil(t, c)

	basic, err := c.Get("basic")
	require.NoError(t, err)
	assert.Equal(t, 30, basic.Days)
	assert.Equal(t, 50, basic.Price)

	premium, err := c.Get("premium")
	require.NoError(t, err)
	assert.Equal(t, 90, premium.Days)
	assert.Equal(t, 200, premium.Price)

	assert.Len(t, c.List(), 2)
}

func TestGetUnknownTariff(t *testing.T) {
	c := Default()
	_, err := c.Get("gold")
	require.ErrorIs(t, err, ErrUnknownTariff)
}

func TestGetNormalizesID(t *testing.T) {
	c := Default()
	tariff, err := c.Get("  Premium ")
	require.NoError(t, err)
	assert.Equal(t, "premium", tariff.ID)
}

func TestNewCatalogRejectsBadDefinitions(t *testing.T) {
	_, err := NewCatalog(Tariff{ID: "basic", Days: 30, Price: 50}, Tariff{ID: "basic", Days: 60, Price: 90})
	require.Error(t, err)

	_, err = NewCatalog(Tariff{ID: "", Days: 30, Price: 50})
	require.Error(t, err)

	_, err = NewCatalog(Tariff{ID: "zero", Days: 0, Price: 50})
	require.Error(t, err)
}

func TestDefaultEnvOverride(t *testing.T) {
	t.Setenv("TARIFF_BASIC_STARS", "75")
	t.Setenv("TARIFF_PREMIUM_DAYS", "120")

	c := Default()
	basic, err := c.Get("basic")
	require.NoError(t, err)
	assert.Equal(t, 75, basic.Price)

	premium, err := c.Get("premium")
	require.NoError(t, err)
	assert.Equal(t, 120, premium.Days)
}

func TestDuration(t *testing.T) {
	tariff := Tariff{ID: "basic", Days: 30, Price: 50}
	assert.Equal(t, 30*24.0, tariff.Duration().Hours())
}
