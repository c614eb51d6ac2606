package service

import (
	"bytes"
	"context"
	"html"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/linkstash/server/internal/listing"
	"github.com/linkstash/server/internal/repo"
)

// ExportService renders a user's whole collection into a standalone HTML
// page; link descriptions are treated as markdown.
type ExportService struct {
	links    *repo.LinkRepo
	linkTags *repo.LinkTagRepo
	md       goldmark.Markdown
}

func NewExportService(links *repo.LinkRepo, linkTags *repo.LinkTagRepo) *ExportService {
	return &ExportService{
		links:    links,
		linkTags: linkTags,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

const exportPageSize = 200

func (s *ExportService) ExportHTML(ctx context.Context, userID int64) ([]byte, error) {
	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>linkstash export</title></head>\n<body>\n")
	out.WriteString("<h1>Exported links</h1>\n<p>" + html.EscapeString(time.Now().Format(time.RFC1123)) + "</p>\n")

	filters := listing.Filters{OwnerID: &userID}
	cursor, err := listing.NewCursor(nil, listing.OrderAsc, exportPageSize)
	if err != nil {
		return nil, err
	}
	for {
		rows, err := s.links.ListPage(ctx, userID, filters, cursor)
		if err != nil {
			return nil, err
		}
		page, meta := listing.TrimPage(rows, cursor, func(r repo.LinkRow) int64 { return r.ID })
		linkIDs := make([]int64, 0, len(page))
		for _, row := range page {
			linkIDs = append(linkIDs, row.ID)
		}
		tagNames, err := s.linkTags.ListNamesByLinkIDs(ctx, linkIDs)
		if err != nil {
			return nil, err
		}
		for _, row := range page {
			if err := s.renderLink(&out, row, tagNames[row.ID]); err != nil {
				return nil, err
			}
		}
		if !meta.HasNextPage {
			break
		}
		cursor.ID = meta.NextCursor
	}

	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

func (s *ExportService) renderLink(out *bytes.Buffer, row repo.LinkRow, tags []string) error {
	out.WriteString("<article>\n<h2><a href=\"" + html.EscapeString(row.LinkURL) + "\">" +
		html.EscapeString(row.Title) + "</a></h2>\n")
	if len(tags) > 0 {
		out.WriteString("<p>")
		for i, tag := range tags {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString("<code>" + html.EscapeString(tag) + "</code>")
		}
		out.WriteString("</p>\n")
	}
	if row.Description != "" {
		if err := s.md.Convert([]byte(row.Description), out); err != nil {
			return err
		}
	}
	out.WriteString("</article>\n")
	return nil
}
