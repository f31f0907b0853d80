package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func TestMemoryRoundTrip(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "companieshouse", "12345678", payload{Name: "Acme", Active: true}, time.Minute))

	var got payload
	hit, err := c.Get(ctx, "companieshouse", "12345678", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Name: "Acme", Active: true}, got)
}

func TestMemoryMiss(t *testing.T) {
	c := NewMemory()

	var got payload
	hit, err := c.Get(context.Background(), "companieshouse", "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryKeysScopedBySource(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "companieshouse", "12345678", payload{Name: "Acme"}, time.Minute))

	var got payload
	hit, err := c.Get(ctx, "ukrlp", "12345678", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "companieshouse", "12345678", payload{Name: "Acme"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got payload
	hit, err := c.Get(ctx, "companieshouse", "12345678", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryZeroTTLNotStored(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "companieshouse", "12345678", payload{Name: "Acme"}, 0))

	var got payload
	hit, err := c.Get(ctx, "companieshouse", "12345678", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
