package domain_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hostwarden/internal/domain"
)

func numberedHosts(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "10.0.0.%d host%02d.test\n", i, i)
	}
	return b.String()
}

func TestHostsDocument_FindContext(t *testing.T) {
	doc := domain.ParseHostsDocument(numberedHosts(15))

	tests := []struct {
		name     string
		hostname string
		want     domain.HostsFileContext
	}{
		{
			name:     "middle of file",
			hostname: "host10.test",
			want: domain.HostsFileContext{
				LineNumber: 10,
				SurroundingLines: []string{
					"10.0.0.8 host08.test",
					"10.0.0.9 host09.test",
					"10.0.0.10 host10.test",
					"10.0.0.11 host11.test",
					"10.0.0.12 host12.test",
				},
			},
		},
		{
			name:     "first line clips at start",
			hostname: "host01.test",
			want: domain.HostsFileContext{
				LineNumber: 1,
				SurroundingLines: []string{
					"10.0.0.1 host01.test",
					"10.0.0.2 host02.test",
					"10.0.0.3 host03.test",
				},
			},
		},
		{
			name:     "last line clips at end",
			hostname: "host15.test",
			want: domain.HostsFileContext{
				LineNumber: 15,
				SurroundingLines: []string{
					"10.0.0.13 host13.test",
					"10.0.0.14 host14.test",
					"10.0.0.15 host15.test",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := doc.Find(tt.hostname)
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Find(%q) mismatch (-want +got):\n%s", tt.hostname, diff)
			}
		})
	}
}

func TestHostsDocument_FindFirstMatchWins(t *testing.T) {
	doc := domain.ParseHostsDocument("# foo.test comment\n127.0.0.1 foo.test\n")
	got, ok := doc.Find("foo.test")
	require.True(t, ok)
	assert.Equal(t, 1, got.LineNumber)
}

func TestHostsDocument_FindMissing(t *testing.T) {
	doc := domain.ParseHostsDocument("127.0.0.1 localhost\n")
	_, ok := doc.Find("missing.test")
	assert.False(t, ok)
	_, ok = doc.Find("")
	assert.False(t, ok)
}

func TestHostsDocument_EntryIgnoresComments(t *testing.T) {
	doc := domain.ParseHostsDocument("127.0.0.1 foo.test\n# 127.0.0.1 foo.test\n")
	entry, ok := doc.Entry("foo.test")
	require.True(t, ok)
	assert.Equal(t, 0, entry.LineIndex)
	assert.Equal(t, "127.0.0.1 foo.test", entry.RawLine)

	commentOnly := domain.ParseHostsDocument("# 127.0.0.1 bar.test\n127.0.0.1\tbar.test\n")
	_, ok = commentOnly.Entry("bar.test")
	assert.False(t, ok, "comment and tab separated lines are not canonical entries")
}

func TestHostsDocument_HasLineIncludesComments(t *testing.T) {
	doc := domain.ParseHostsDocument("  127.0.0.1 foo.test  \n")
	assert.True(t, doc.HasLine("127.0.0.1 foo.test"))
	assert.False(t, doc.HasLine("127.0.0.1 bar.test"))
}

func TestHostsDocument_WithoutHostRemovesEveryMatch(t *testing.T) {
	doc := domain.ParseHostsDocument(strings.Join([]string{
		"127.0.0.1 localhost",
		"127.0.0.1 foo.test",
		"# 127.0.0.1 foo.test",
		"127.0.0.1    foo.test",
		"127.0.0.1 foo.test.example",
		"",
	}, "\n"))

	next, removed := doc.WithoutHost("foo.test")
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{
		"127.0.0.1 localhost",
		"# 127.0.0.1 foo.test",
		"127.0.0.1 foo.test.example",
	}, next.Lines())
	assert.Equal(t, 5, doc.Len(), "original snapshot is untouched")
}

func TestHostsDocument_WithoutHostEscapesMetacharacters(t *testing.T) {
	doc := domain.ParseHostsDocument("127.0.0.1 evilXcom\n127.0.0.1 evil.com|rm -rf\n127.0.0.1 evil.com\n")

	next, removed := doc.WithoutHost("evil.com|rm -rf")
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"127.0.0.1 evilXcom", "127.0.0.1 evil.com"}, next.Lines())

	_, removed = doc.WithoutHost("evil.com")
	assert.Equal(t, 1, removed, "dot must not match arbitrary characters")
}

func TestHostsDocument_RoundTripPreservesBytes(t *testing.T) {
	inputs := []string{
		"",
		"\n",
		"127.0.0.1 localhost",
		"127.0.0.1 localhost\n\n# tail\n",
		"127.0.0.1 localhost\r\n::1 localhost\r\n",
		"127.0.0.1 localhost\r\n# lf line\n::1 localhost\r\n",
		"# no terminator\r",
	}
	for _, in := range inputs {
		assert.Equal(t, in, domain.ParseHostsDocument(in).String())
	}
}

func TestHostsDocument_WithAppendedAddsFinalLine(t *testing.T) {
	doc := domain.ParseHostsDocument("127.0.0.1 localhost")
	next := doc.WithAppended(domain.CanonicalHostLine("foo.test"))
	assert.Equal(t, "127.0.0.1 localhost\n127.0.0.1 foo.test\n", next.String())

	crlf := domain.ParseHostsDocument("127.0.0.1 localhost\r\n").WithAppended("127.0.0.1 foo.test")
	assert.Equal(t, "127.0.0.1 localhost\r\n127.0.0.1 foo.test\r\n", crlf.String())

	empty := domain.ParseHostsDocument("").WithAppended("127.0.0.1 foo.test")
	assert.Equal(t, "127.0.0.1 foo.test\n", empty.String())
}

func TestHostsDocument_MixedLineEndingsSurviveMutation(t *testing.T) {
	doc := domain.ParseHostsDocument("127.0.0.1 x.test\r\n# keep\nother 1.2.3.4\n")

	next, removed := doc.WithoutHost("x.test")
	assert.Equal(t, 1, removed)
	assert.Equal(t, "# keep\nother 1.2.3.4\n", next.String())

	appended := domain.ParseHostsDocument("# crlf\r\n# lf\n").WithAppended("127.0.0.1 foo.test")
	assert.Equal(t, "# crlf\r\n# lf\n127.0.0.1 foo.test\n", appended.String(), "appended line follows the last terminator")

	lfFirst := domain.ParseHostsDocument("# lf\n# crlf\r\n").WithAppended("127.0.0.1 foo.test")
	assert.Equal(t, "# lf\n# crlf\r\n127.0.0.1 foo.test\r\n", lfFirst.String())
}

func TestHostsDocument_DeletingUnterminatedLastLineKeepsPrecedingTerminator(t *testing.T) {
	doc := domain.ParseHostsDocument("127.0.0.1 localhost\r\n127.0.0.1 foo.test")
	next, removed := doc.WithoutHost("foo.test")
	assert.Equal(t, 1, removed)
	assert.Equal(t, "127.0.0.1 localhost\r\n", next.String())
}
