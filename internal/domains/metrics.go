package domains

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// MetricUpdate is one parsed row of a bulk SEO metric import. Nil fields were
// absent or unparseable and must be left untouched on the domain.
type MetricUpdate struct {
	DomainName     string `json:"domainName"`
	DomainRating   *int   `json:"domainRating"`
	DomainAuth     *int   `json:"domainAuthority"`
	SpamScore      *int   `json:"spamScore"`
	OrganicTraffic *int64 `json:"organicTraffic"`
}

// ParseMetricRows parses pasted or uploaded tabular text into metric updates.
// Expected column order: domain, DR, DA, spam score, traffic. The delimiter
// (tab, semicolon or comma) is autodetected. A non-numeric or empty cell
// skips that field only; the rest of the row still applies. Rows without a
// recognizable domain name are dropped.
func ParseMetricRows(text string) []MetricUpdate {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = detectDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var updates []MetricUpdate
	records, err := r.ReadAll()
	if err != nil {
		// Fall back to line-splitting so one malformed quote doesn't sink
		// the whole paste.
		records = nil
		for _, line := range strings.Split(text, "\n") {
			records = append(records, strings.Split(line, string(r.Comma)))
		}
	}

	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(rec[0]))
		name = strings.TrimPrefix(name, "https://")
		name = strings.TrimPrefix(name, "http://")
		name = strings.TrimPrefix(name, "www.")
		name = strings.TrimSuffix(name, "/")
		if name == "" || !strings.Contains(name, ".") {
			continue // header row or junk
		}

		u := MetricUpdate{DomainName: name}
		if len(rec) > 1 {
			u.DomainRating = parseIntCell(rec[1])
		}
		if len(rec) > 2 {
			u.DomainAuth = parseIntCell(rec[2])
		}
		if len(rec) > 3 {
			u.SpamScore = parseIntCell(rec[3])
		}
		if len(rec) > 4 {
			u.OrganicTraffic = parseInt64Cell(rec[4])
		}
		updates = append(updates, u)
	}
	return updates
}

func detectDelimiter(text string) rune {
	switch {
	case strings.Contains(text, "\t"):
		return '\t'
	case strings.Contains(text, ";"):
		return ';'
	}
	return ','
}

func parseIntCell(cell string) *int {
	v := parseInt64Cell(cell)
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func parseInt64Cell(cell string) *int64 {
	cell = strings.TrimSpace(cell)
	cell = strings.ReplaceAll(cell, ",", "")
	cell = strings.TrimSuffix(cell, "%")
	if cell == "" {
		return nil
	}
	// Metric exports sometimes use decimals (e.g. "12.0").
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		n := int64(f)
		return &n
	}
	return nil
}
