//go:build integration
// +build integration

package mongodb_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ammerola/catalog-be/internal/adapters/mongodb"
	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/query"
	"github.com/ammerola/catalog-be/test/helpers"
)

type DocumentStoreSuite struct {
	suite.Suite
	store *mongodb.DocumentStore
	ctx   context.Context
}

func (s *DocumentStoreSuite) SetupSuite() {
	s.store = helpers.SetupTestMongo(s.T())
	s.ctx = context.Background()
}

func (s *DocumentStoreSuite) SetupTest() {
	for _, c := range []string{domain.CollectionProducts, domain.CollectionSales} {
		_, err := s.store.DeleteMany(s.ctx, c, query.Filter{})
		s.Require().NoError(err)
	}
}

func (s *DocumentStoreSuite) insertProducts() []domain.Document {
	docs, err := s.store.InsertMany(s.ctx, domain.CollectionProducts, []domain.Document{
		{"name": "Camiseta", "category": "tops", "price": 150, "sizes": []any{"S", "M"}, "inventory": map[string]any{"S": 2, "M": 0}},
		{"name": "Pantalón", "category": "bottoms", "price": 320, "sizes": []any{"M", "L"}},
		{"name": "Blusa", "category": "tops", "price": 180, "brand": "Zara"},
	})
	s.Require().NoError(err)
	return docs
}

func (s *DocumentStoreSuite) names(params url.Values) []string {
	q, err := query.Translate(params)
	s.Require().NoError(err)

	docs, err := s.store.Find(s.ctx, domain.CollectionProducts, q)
	s.Require().NoError(err)

	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d["name"].(string))
	}
	return names
}

func (s *DocumentStoreSuite) TestFindOperators() {
	s.insertProducts()

	tests := []struct {
		name   string
		params url.Values
		want   []string
	}{
		{name: "eq", params: url.Values{"category[eq]": {"tops"}}, want: []string{"Camiseta", "Blusa"}},
		{name: "eq_array_element", params: url.Values{"sizes[eq]": {"L"}}, want: []string{"Pantalón"}},
		{name: "neq_includes_missing", params: url.Values{"brand[neq]": {"Zara"}}, want: []string{"Camiseta", "Pantalón"}},
		{name: "ilike", params: url.Values{"name[ilike]": {"^bl"}}, want: []string{"Blusa"}},
		{name: "in", params: url.Values{"category[in]": {"bottoms,shoes"}}, want: []string{"Pantalón"}},
		{name: "nested", params: url.Values{"inventory.S[gt]": {"0"}}, want: []string{"Camiseta"}},
		{name: "range_sorted_limited", params: url.Values{
			"price[gte]": {"100"}, "price[lte]": {"200"}, "order": {"price.desc"}, "limit": {"2"},
		}, want: []string{"Blusa", "Camiseta"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, s.names(tt.params))
		})
	}
}

func (s *DocumentStoreSuite) TestInsertThenFindByIDFilter() {
	docs := s.insertProducts()
	id := domain.Normalize(docs[1]).ID()

	s.Equal([]string{"Pantalón"}, s.names(url.Values{"id[eq]": {id}}))
}

func (s *DocumentStoreSuite) TestUpdateAndDelete() {
	docs := s.insertProducts()
	id := domain.Normalize(docs[0]).ID()

	updated, err := s.store.UpdateByID(s.ctx, domain.CollectionProducts, id, domain.Document{
		"inventory": map[string]any{"S": 1, "M": 0},
	})
	s.Require().NoError(err)
	s.EqualValues(1, updated["inventory"].(map[string]any)["S"])

	many, err := s.store.UpdateMany(s.ctx, domain.CollectionProducts,
		query.TranslateFilter(url.Values{"category[eq]": {"tops"}}), domain.Document{"featured": true})
	s.Require().NoError(err)
	s.Len(many, 2)

	moved, err := s.store.UpdateMany(s.ctx, domain.CollectionProducts,
		query.TranslateFilter(url.Values{"category[eq]": {"tops"}}), domain.Document{"category": "outerwear"})
	s.Require().NoError(err)
	s.Empty(moved)
	s.Len(s.names(url.Values{"category[eq]": {"outerwear"}}), 2)

	deleted, err := s.store.DeleteByID(s.ctx, domain.CollectionProducts, id)
	s.Require().NoError(err)
	s.Equal("Camiseta", deleted["name"])

	_, err = s.store.FindByID(s.ctx, domain.CollectionProducts, id)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *DocumentStoreSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}

func TestDocumentStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(DocumentStoreSuite))
}
