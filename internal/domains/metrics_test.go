package domains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetricRowsTabDelimited(t *testing.T) {
	text := "example.com\t71\t64\t2\t15400\nblog.example.org\t38\t41\t1\t900\n"

	updates := ParseMetricRows(text)
	require.Len(t, updates, 2)

	assert.Equal(t, "example.com", updates[0].DomainName)
	require.NotNil(t, updates[0].DomainRating)
	assert.Equal(t, 71, *updates[0].DomainRating)
	require.NotNil(t, updates[0].OrganicTraffic)
	assert.Equal(t, int64(15400), *updates[0].OrganicTraffic)
}

// A bad cell skips that field only; valid fields in the same row still apply.
func TestParseMetricRowsNonNumericCellSkipped(t *testing.T) {
	text := "example.com\tn/a\t64\t\t15400\n"

	updates := ParseMetricRows(text)
	require.Len(t, updates, 1)

	u := updates[0]
	assert.Nil(t, u.DomainRating, "non-numeric DR must be skipped")
	require.NotNil(t, u.DomainAuth)
	assert.Equal(t, 64, *u.DomainAuth)
	assert.Nil(t, u.SpamScore, "empty cell must be skipped")
	require.NotNil(t, u.OrganicTraffic)
	assert.Equal(t, int64(15400), *u.OrganicTraffic)
}

func TestParseMetricRowsCommaDelimited(t *testing.T) {
	text := "example.com,55,60,3,1200\n"

	updates := ParseMetricRows(text)
	require.Len(t, updates, 1)
	require.NotNil(t, updates[0].SpamScore)
	assert.Equal(t, 3, *updates[0].SpamScore)
}

func TestParseMetricRowsSkipsHeaderAndJunk(t *testing.T) {
	text := "domain\tdr\tda\tspam\ttraffic\nexample.com\t10\t20\t1\t100\n\nnot-a-domain\t1\t2\t3\t4\n"

	updates := ParseMetricRows(text)
	require.Len(t, updates, 1)
	assert.Equal(t, "example.com", updates[0].DomainName)
}

func TestParseMetricRowsNormalizesDomainName(t *testing.T) {
	text := "https://www.Example.COM/\t10\t20\t1\t100\n"

	updates := ParseMetricRows(text)
	require.Len(t, updates, 1)
	assert.Equal(t, "example.com", updates[0].DomainName)
}

func TestParseMetricRowsDecimalAndPercent(t *testing.T) {
	text := "example.com\t12.0\t30\t2%\t1,500\n"

	updates := ParseMetricRows(text)
	require.Len(t, updates, 1)

	u := updates[0]
	require.NotNil(t, u.DomainRating)
	assert.Equal(t, 12, *u.DomainRating)
	require.NotNil(t, u.SpamScore)
	assert.Equal(t, 2, *u.SpamScore)
	require.NotNil(t, u.OrganicTraffic)
	assert.Equal(t, int64(1500), *u.OrganicTraffic)
}
