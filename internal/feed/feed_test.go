package feed

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rssFeed(links ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>My Blog</title>
<link>https://blog.example.com</link>
<description>Posts</description>
`)
	for i, link := range links {
		fmt.Fprintf(&b, "<item><title>Post %d</title><link>%s</link></item>\n", i+1, link)
	}
	b.WriteString("</channel>\n</rss>")
	return b.String()
}

func TestExtractLinks_DocumentOrder(t *testing.T) {
	xml := rssFeed(
		"https://blog.example.com/post-1",
		"https://blog.example.com/post-2",
		"https://blog.example.com/post-3",
	)

	links, err := ExtractLinks(xml, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://blog.example.com/post-1",
		"https://blog.example.com/post-2",
		"https://blog.example.com/post-3",
	}, links)
}

func TestExtractLinks_TruncatesToMaxPosts(t *testing.T) {
	xml := rssFeed(
		"https://blog.example.com/post-1",
		"https://blog.example.com/post-2",
		"https://blog.example.com/post-3",
		"https://blog.example.com/post-4",
		"https://blog.example.com/post-5",
	)

	links, err := ExtractLinks(xml, 3)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "https://blog.example.com/post-1", links[0])
	assert.Equal(t, "https://blog.example.com/post-3", links[2])
}

func TestExtractLinks_SkipsEmptyAndTrims(t *testing.T) {
	xml := rssFeed(
		"  https://blog.example.com/padded  ",
		"",
		"https://blog.example.com/kept",
	)

	links, err := ExtractLinks(xml, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://blog.example.com/padded",
		"https://blog.example.com/kept",
	}, links)
}

func TestExtractLinks_KeepsDuplicates(t *testing.T) {
	xml := rssFeed(
		"https://blog.example.com/same",
		"https://blog.example.com/same",
	)

	links, err := ExtractLinks(xml, 0)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestExtractLinks_AtomFeed(t *testing.T) {
	xml := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>My Blog</title>
  <entry>
    <title>First</title>
    <link href="https://blog.example.com/atom-1"/>
  </entry>
</feed>`

	links, err := ExtractLinks(xml, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://blog.example.com/atom-1"}, links)
}

func TestExtractLinks_InvalidXML(t *testing.T) {
	links, err := ExtractLinks("this is not a feed", 0)
	assert.Nil(t, links)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "failed to parse feed XML")
}
