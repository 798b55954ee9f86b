package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopPublishersRanksByEarnings(t *testing.T) {
	orders := []OrderRecord{
		{PublisherID: "p1", PublisherEmail: "a@x.io", Status: "completed", PublisherPrice: 5000},
		{PublisherID: "p2", PublisherEmail: "b@x.io", Status: "completed", PublisherPrice: 12000},
		{PublisherID: "p1", PublisherEmail: "a@x.io", Status: "completed", PublisherPrice: 4000},
		{PublisherID: "p3", PublisherEmail: "c@x.io", Status: "cancelled", PublisherPrice: 99000},
	}

	ranks := TopPublishers(orders, 10)
	require.Len(t, ranks, 2)
	assert.Equal(t, "p2", ranks[0].PublisherID)
	assert.Equal(t, int64(12000), ranks[0].Earnings)
	assert.Equal(t, "p1", ranks[1].PublisherID)
	assert.Equal(t, int64(9000), ranks[1].Earnings)
	assert.Equal(t, 2, ranks[1].Orders)
}

func TestTopPublishersTieKeepsFirstSeenOrder(t *testing.T) {
	orders := []OrderRecord{
		{PublisherID: "p1", Status: "completed", PublisherPrice: 1000},
		{PublisherID: "p2", Status: "completed", PublisherPrice: 1000},
		{PublisherID: "p3", Status: "completed", PublisherPrice: 1000},
	}

	ranks := TopPublishers(orders, 10)
	require.Len(t, ranks, 3)
	assert.Equal(t, "p1", ranks[0].PublisherID)
	assert.Equal(t, "p2", ranks[1].PublisherID)
	assert.Equal(t, "p3", ranks[2].PublisherID)
}

func TestTopPublishersLimit(t *testing.T) {
	orders := []OrderRecord{
		{PublisherID: "p1", Status: "completed", PublisherPrice: 300},
		{PublisherID: "p2", Status: "completed", PublisherPrice: 200},
		{PublisherID: "p3", Status: "completed", PublisherPrice: 100},
	}

	ranks := TopPublishers(orders, 2)
	require.Len(t, ranks, 2)
	assert.Equal(t, "p1", ranks[0].PublisherID)
	assert.Equal(t, "p2", ranks[1].PublisherID)
}

func TestTopPagesCountsAndTies(t *testing.T) {
	paths := []string{"/a", "/b", "/a", "/c", "/b", "", "/a"}

	ranks := TopPages(paths, 10)
	require.Len(t, ranks, 3)
	assert.Equal(t, PageRank{Path: "/a", Count: 3}, ranks[0])
	assert.Equal(t, PageRank{Path: "/b", Count: 2}, ranks[1])
	assert.Equal(t, PageRank{Path: "/c", Count: 1}, ranks[2])

	// Equal counts keep first-seen order.
	tied := TopPages([]string{"/x", "/y", "/z"}, 10)
	require.Len(t, tied, 3)
	assert.Equal(t, "/x", tied[0].Path)
	assert.Equal(t, "/y", tied[1].Path)
	assert.Equal(t, "/z", tied[2].Path)
}

func TestTopPagesGroupsByPathAcrossHosts(t *testing.T) {
	urls := []string{
		"https://example.com/pricing",
		"http://example.com/pricing",
		"https://www.other.io/pricing",
		"https://example.com/blog",
	}

	ranks := TopPages(urls, 10)
	require.Len(t, ranks, 2)
	assert.Equal(t, PageRank{Path: "/pricing", Count: 3}, ranks[0])
	assert.Equal(t, PageRank{Path: "/blog", Count: 1}, ranks[1])
}

func TestTopPagesFallsBackToRawOnBadURL(t *testing.T) {
	urls := []string{"http://bad host/x", "http://bad host/x"}

	ranks := TopPages(urls, 10)
	require.Len(t, ranks, 1)
	assert.Equal(t, PageRank{Path: "http://bad host/x", Count: 2}, ranks[0])
}

func TestRevenueOnlyCountsCompleted(t *testing.T) {
	orders := []OrderRecord{
		{Status: "completed", TotalPrice: 10000, PublisherPrice: 7000},
		{Status: "completed", TotalPrice: 5000, PublisherPrice: 3500},
		{Status: "refunded", TotalPrice: 20000, PublisherPrice: 14000},
		{Status: "pending", TotalPrice: 1000, PublisherPrice: 700},
	}

	total, share := Revenue(orders)
	assert.Equal(t, int64(15000), total)
	assert.Equal(t, int64(10500), share)
}

func TestCountByStatus(t *testing.T) {
	orders := []OrderRecord{
		{Status: "pending"},
		{Status: "completed"},
		{Status: "completed"},
		{Status: "disputed"},
	}

	assert.Equal(t, map[string]int{"pending": 1, "completed": 2, "disputed": 1}, CountByStatus(orders))
}
