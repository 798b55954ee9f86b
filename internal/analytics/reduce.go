package analytics

import (
	"net/url"
	"sort"
)

type OrderRecord struct {
	PublisherID    string
	PublisherEmail string
	Status         string
	TotalPrice     int64
	PublisherPrice int64
}

type PublisherRank struct {
	PublisherID string `json:"publisher_id"`
	Email       string `json:"email"`
	Orders      int    `json:"orders"`
	Earnings    int64  `json:"earnings"`
}

type PageRank struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// TopPublishers ranks publishers by completed-order earnings, highest
// first. Ties keep first-seen order so repeated calls over the same
// input are stable.
func TopPublishers(orders []OrderRecord, limit int) []PublisherRank {
	index := map[string]int{}
	var ranks []PublisherRank
	for _, o := range orders {
		if o.Status != "completed" || o.PublisherID == "" {
			continue
		}
		i, ok := index[o.PublisherID]
		if !ok {
			i = len(ranks)
			index[o.PublisherID] = i
			ranks = append(ranks, PublisherRank{PublisherID: o.PublisherID, Email: o.PublisherEmail})
		}
		ranks[i].Orders++
		ranks[i].Earnings += o.PublisherPrice
	}

	sort.SliceStable(ranks, func(a, b int) bool {
		return ranks[a].Earnings > ranks[b].Earnings
	})
	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}

// TopPages counts occurrences of each URL path, highest first, ties in
// first-seen order. Scheme and host are stripped so http and https hits on
// the same page land in one bucket; unparseable input counts under its raw
// string.
func TopPages(rawURLs []string, limit int) []PageRank {
	index := map[string]int{}
	var ranks []PageRank
	for _, raw := range rawURLs {
		p := pagePath(raw)
		if p == "" {
			continue
		}
		i, ok := index[p]
		if !ok {
			i = len(ranks)
			index[p] = i
			ranks = append(ranks, PageRank{Path: p})
		}
		ranks[i].Count++
	}

	sort.SliceStable(ranks, func(a, b int) bool {
		return ranks[a].Count > ranks[b].Count
	})
	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}

func pagePath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return raw
	}
	return u.Path
}

// Revenue sums order totals and publisher earnings for completed orders.
func Revenue(orders []OrderRecord) (total, publisherShare int64) {
	for _, o := range orders {
		if o.Status != "completed" {
			continue
		}
		total += o.TotalPrice
		publisherShare += o.PublisherPrice
	}
	return total, publisherShare
}

// CountByStatus buckets orders by status.
func CountByStatus(orders []OrderRecord) map[string]int {
	out := map[string]int{}
	for _, o := range orders {
		out[o.Status]++
	}
	return out
}
