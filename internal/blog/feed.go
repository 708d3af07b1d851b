package blog

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// FeedInfo holds the channel-level identity of the RSS feed.
type FeedInfo struct {
	Title       string
	Link        string
	Description string
	LogoURL     string
}

const rssTimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// RenderFeed produces an RSS 2.0 document for the given posts, newest
// first. Post content is HTML-entity-escaped inside the description
// element so markup in a post body survives feed readers intact.
func RenderFeed(info FeedInfo, posts []*Post, now time.Time) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">` + "\n")
	b.WriteString("<channel>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(info.Title))
	fmt.Fprintf(&b, "<link>%s</link>\n", html.EscapeString(info.Link))
	fmt.Fprintf(&b, "<description>%s</description>\n", html.EscapeString(info.Description))
	b.WriteString("<language>en-us</language>\n")
	fmt.Fprintf(&b, "<lastBuildDate>%s</lastBuildDate>\n", now.UTC().Format(rssTimeFormat))
	if info.LogoURL != "" {
		b.WriteString("<image>\n")
		fmt.Fprintf(&b, "<url>%s</url>\n", html.EscapeString(info.LogoURL))
		fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(info.Title))
		fmt.Fprintf(&b, "<link>%s</link>\n", html.EscapeString(info.Link))
		b.WriteString("</image>\n")
	}

	for _, post := range posts {
		permalink := fmt.Sprintf("%s/post/%s", info.Link, post.ID)

		b.WriteString("<item>\n")
		fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(post.Title))
		fmt.Fprintf(&b, "<link>%s</link>\n", permalink)
		fmt.Fprintf(&b, "<guid>%s</guid>\n", permalink)
		fmt.Fprintf(&b, "<pubDate>%s</pubDate>\n", post.CreatedAt.UTC().Format(rssTimeFormat))
		fmt.Fprintf(&b, "<description>%s</description>\n", html.EscapeString(post.Content))
		if post.Author != "" {
			fmt.Fprintf(&b, "<author>%s</author>\n", html.EscapeString(post.Author))
		}
		if info.LogoURL != "" {
			fmt.Fprintf(&b, `<media:content url="%s" medium="image" />`+"\n", html.EscapeString(info.LogoURL))
		}
		b.WriteString("</item>\n")
	}

	b.WriteString("</channel>\n")
	b.WriteString("</rss>")
	return b.String()
}
