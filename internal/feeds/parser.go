package feeds

import (
	"fmt"
	"io"

	"github.com/mmcdole/gofeed"

	"github.com/nkoval/newsdeck/internal/news"
)

type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
	}
}

// Parse converts a feed document into articles attributed to the
// named source. Items without a link are skipped; the link is the
// article's identity everywhere downstream.
func (p *Parser) Parse(reader io.Reader, sourceName string) ([]news.Article, error) {
	feed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	name := sourceName
	if name == "" {
		name = feed.Title
	}

	articles := make([]news.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}

		article := news.Article{
			Source:      news.Source{Name: name},
			Title:       item.Title,
			Description: item.Description,
			Content:     getContent(item),
			URL:         item.Link,
		}

		if len(item.Authors) > 0 && item.Authors[0] != nil {
			article.Author = item.Authors[0].Name
		}

		if item.Image != nil {
			article.ImageURL = item.Image.URL
		}

		if item.PublishedParsed != nil {
			article.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			article.PublishedAt = *item.UpdatedParsed
		}

		articles = append(articles, article)
	}

	return articles, nil
}

func getContent(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}
