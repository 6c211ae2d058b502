package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-analytics/gridrank/internal/category"
)

func validConfig() *Config {
	return &Config{
		League:          category.LeaguePro,
		Seasons:         "2016-2018",
		BaselineSeasons: "2013-2015",
		PlayerKFactor:   20,
		TeamKFactor:     25,
		RegressionBlend: 0.75,
		SeasonGap:       9500,
		SortColumn:      "rating",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := map[string]func(*Config){
		"unknown league": func(c *Config) { c.League = "arena" },
		"zero k":         func(c *Config) { c.PlayerKFactor = 0 },
		"bad blend":      func(c *Config) { c.RegressionBlend = 1.2 },
		"zero gap":       func(c *Config) { c.SeasonGap = 0 },
		"empty seasons":  func(c *Config) { c.Seasons = "" },
		"bad sort col":   func(c *Config) { c.SortColumn = "swagger" },
	}
	for name, mutate := range cases {
		c := validConfig()
		mutate(c)
		assert.Error(t, c.Validate(), name)
	}
}

func TestSeasonRange(t *testing.T) {
	c := validConfig()
	seasons, err := c.SeasonRange()
	require.NoError(t, err)
	assert.Equal(t, []int{2016, 2017, 2018}, seasons)

	c.Seasons = "2020"
	seasons, err = c.SeasonRange()
	require.NoError(t, err)
	assert.Equal(t, []int{2020}, seasons)

	c.Seasons = "2020-2016"
	_, err = c.SeasonRange()
	assert.Error(t, err)
}

func TestBaselineSeasonRangeOptional(t *testing.T) {
	c := validConfig()
	c.BaselineSeasons = ""
	seasons, err := c.BaselineSeasonRange()
	require.NoError(t, err)
	assert.Empty(t, seasons)
}

func TestSortSpec(t *testing.T) {
	c := validConfig()
	c.SortColumn = "composite"
	c.SortDescending = true

	spec := c.SortSpec()
	assert.Equal(t, "composite", spec.Column)
	assert.True(t, spec.Descending)
}

func TestEliteList(t *testing.T) {
	c := validConfig()
	assert.Nil(t, c.EliteList())

	c.ElitePlayers = "brady-12, mahomes-15 ,,"
	assert.Equal(t, []string{"brady-12", "mahomes-15"}, c.EliteList())
}
