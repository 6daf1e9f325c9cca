package csvsource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

const header = "Landing Page,Query,Clicks,Impressions,CTR,Position\n"

func read(t *testing.T, data string, opts Options) ([]domain.RawRecord, *Source, error) {
	t.Helper()
	src := New(strings.NewReader(data), opts)
	records, err := src.Records(context.Background())
	return records, src, err
}

func TestSource_Records(t *testing.T) {
	data := header +
		"https://loja.com/p1,comprar tenis,100,1000,10%,3.2\n" +
		"https://loja.com/p2,\"tenis, barato\",40,400,10%,5\n"

	records, _, err := read(t, data, Options{})

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.RawRecord{
		LandingPage: "https://loja.com/p1",
		Query:       "comprar tenis",
		Clicks:      100,
		Impressions: 1000,
		Position:    3.2,
	}, records[0])
	assert.Equal(t, "tenis, barato", records[1].Query)
}

func TestSource_Records_ColumnOrderAndBOM(t *testing.T) {
	data := "\xEF\xBB\xBFPosition,CTR,Impressions,Clicks,Query,Landing Page,Extra\n" +
		"2.5,1%,50,5,melhor tenis,/p,x\n"

	records, _, err := read(t, data, Options{})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "/p", records[0].LandingPage)
	assert.Equal(t, 5, records[0].Clicks)
	assert.Equal(t, 50, records[0].Impressions)
	assert.InDelta(t, 2.5, records[0].Position, 1e-9)
}

func TestSource_Records_MissingColumns(t *testing.T) {
	_, _, err := read(t, "Landing Page,Query,Clicks\n/p,q,1\n", Options{})

	require.ErrorIs(t, err, domain.ErrMissingColumns)
	assert.Contains(t, err.Error(), "Impressions, CTR, Position")
}

func TestSource_Records_FiltersPages(t *testing.T) {
	data := header +
		",orphan query,1,1,1%,1\n" +
		"/page#section,anchor,1,1,1%,1\n" +
		"/page,kept,1,1,1%,1\n" +
		",,,,,\n"

	records, _, err := read(t, data, Options{})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].Query)
}

func TestSource_Records_InvalidNumbers(t *testing.T) {
	data := header +
		"/good,q,1,10,1%,2\n" +
		"/bad,q,n/a,10,1%,2\n"

	t.Run("strict mode fails naming the url", func(t *testing.T) {
		_, _, err := read(t, data, Options{})

		require.ErrorIs(t, err, domain.ErrInvalidRow)
		assert.Contains(t, err.Error(), "/bad")
		assert.Contains(t, err.Error(), "line 3")
	})

	t.Run("skip mode drops the row", func(t *testing.T) {
		records, src, err := read(t, data, Options{SkipInvalid: true})

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "/good", records[0].LandingPage)
		assert.Equal(t, 1, src.Skipped())
	})
}

func TestSource_Records_Empty(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"header only", header},
		{"only filtered rows", header + "#,q,1,1,1%,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := read(t, tt.data, Options{})
			assert.ErrorIs(t, err, domain.ErrNoRecords)
		})
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"/p,q,1,2,1%,3\n"), 0600))

	src, err := Open(path, Options{})
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, domain.SourceCSV, src.Kind())
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = Open(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.Error(t, err)
}

func TestLeadingNumbers(t *testing.T) {
	intTests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"42", 42, true},
		{" 7 ", 7, true},
		{"1,234", 1, true},
		{"12.9", 12, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
	}
	for _, tt := range intTests {
		got, ok := leadingInt(tt.in)
		assert.Equal(t, tt.ok, ok, "leadingInt(%q)", tt.in)
		assert.Equal(t, tt.want, got, "leadingInt(%q)", tt.in)
	}

	floatTests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"3.25", 3.25, true},
		{"3.5abc", 3.5, true},
		{".5", 0.5, true},
		{"1e2", 100, true},
		{"2e", 2, true},
		{"", 0, false},
		{".", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range floatTests {
		got, ok := leadingFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "leadingFloat(%q)", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "leadingFloat(%q)", tt.in)
	}
}
