package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Skotchmaster/med_clinic/internal/es"
	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/repo"
)

const (
	SearchPosts = "posts"
	SearchBooks = "books"
)

// Searcher runs a full-text query against one index.
type Searcher interface {
	Search(ctx context.Context, index, query string, fields []string, from, size int) (int64, []json.RawMessage, error)
}

type SearchService struct {
	Repo     *repo.GormRepo
	Searcher Searcher
}

type SearchResult struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Total  int64  `json:"total"`
	Items  any    `json:"items"`
}

var searchFields = map[string][]string{
	SearchPosts: {"title^3", "excerpt", "tags^2", "category"},
	SearchBooks: {"title^3", "author^2", "description", "isbn"},
}

// Search queries the index and falls back to a database LIKE match when the
// index is unavailable.
func (s *SearchService) Search(ctx context.Context, kind, query string, offset, limit int) (*SearchResult, error) {
	l := logging.FromContext(ctx).With("svc", "search")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("q is required: %w", ErrValidation)
	}
	if kind == "" {
		kind = SearchPosts
	}
	fields, ok := searchFields[kind]
	if !ok {
		return nil, fmt.Errorf("type must be posts or books: %w", ErrValidation)
	}

	if s.Searcher != nil {
		index := es.IndexPosts
		if kind == SearchBooks {
			index = es.IndexBooks
		}
		total, hits, err := s.Searcher.Search(ctx, index, query, fields, offset, limit)
		if err == nil {
			return &SearchResult{Type: kind, Source: "index", Total: total, Items: hits}, nil
		}
		l.Error("search_index_failed", "index", index, "error", err)
	}

	switch kind {
	case SearchBooks:
		total, books, err := s.Repo.ListBooks(ctx, query, offset, limit)
		if err != nil {
			return nil, err
		}
		return &SearchResult{Type: kind, Source: "database", Total: total, Items: books}, nil
	default:
		total, posts, err := s.Repo.ListPosts(ctx, repo.PostFilter{Query: query, OnlyPublished: true}, offset, limit)
		if err != nil {
			return nil, err
		}
		return &SearchResult{Type: kind, Source: "database", Total: total, Items: posts}, nil
	}
}
