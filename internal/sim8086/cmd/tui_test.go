package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sim8086/internal/listing"
)

func TestModelLoadsListing(t *testing.T) {
	t.Setenv("SIM8086_NO_COLOR", "1")

	m := newModel("image.bin", listing.Options{})
	assert.True(t, m.loading)

	l := listing.Build([]byte{0x89, 0xd9, 0x88, 0xe5}, listing.Options{})
	updated, cmd := m.Update(listingMsg{listing: l})
	assert.Nil(t, cmd)

	m, ok := updated.(model)
	require.True(t, ok)
	assert.False(t, m.loading)
	assert.Equal(t, viewListing, m.mode)
	assert.Len(t, m.entries.Items(), 2)
	assert.Equal(t, "Listing (2)", m.entries.Title)

	item, ok := m.entries.SelectedItem().(entryItem)
	require.True(t, ok)
	assert.Equal(t, "mov cx, bx", item.entry.Text)
	assert.Equal(t, "0000 mov cx, bx", item.FilterValue())

	assert.Equal(t, viewDetail, m.nextMode(1))
	assert.Equal(t, viewInfo, m.nextMode(-1))
	assert.True(t, m.updateDetail())
	assert.Contains(t, m.View(), "Enter: explain")
}

func TestModelEmptyListingShowsInfo(t *testing.T) {
	t.Setenv("SIM8086_NO_COLOR", "1")

	m := newModel("empty.bin", listing.Options{})
	updated, _ := m.Update(listingMsg{listing: listing.Build(nil, listing.Options{})})
	m = updated.(model)

	assert.Equal(t, viewInfo, m.mode)
	assert.Nil(t, m.entries.SelectedItem())
	// Detail is skipped when nothing is selected
	assert.Equal(t, viewListing, m.nextMode(1))
	assert.Equal(t, viewListing, m.nextMode(-1))
}
