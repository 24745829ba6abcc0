package benchmarks

import (
	"context"
	"net/url"
	"testing"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/query"
	"github.com/ammerola/catalog-be/internal/core/services"
	"github.com/ammerola/catalog-be/internal/workers"
	"github.com/ammerola/catalog-be/test/helpers"
)

func BenchmarkTranslate(b *testing.B) {
	values := url.Values{
		"brand":      {"Nike"},
		"price[gte]": {"100"},
		"price[lte]": {"900"},
		"sizes[in]":  {"S,M,L"},
		"order":      {"price.desc,name"},
		"limit":      {"50"},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := query.Translate(values); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDocumentList(b *testing.B) {
	docs, _ := seedStore(b, 1000)
	ctx := context.Background()

	cases := []struct {
		name   string
		params url.Values
	}{
		{name: "all", params: nil},
		{name: "equality", params: url.Values{"brand": {"Nike"}}},
		{name: "range_sorted", params: url.Values{"price[gte]": {"500"}, "order": {"price.desc"}, "limit": {"20"}}},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := docs.List(ctx, domain.CollectionProducts, tc.params); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRecordSale(b *testing.B) {
	docs, ids := seedStore(b, 100)
	logger := helpers.TestLogger()
	recorder := services.NewSalesRecorder(docs, services.NewInventoryLedger(docs, logger), logger)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in := helpers.CreateTestSaleInput(ids[i%len(ids)])
		if _, err := recorder.RecordSale(ctx, in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSummarize(b *testing.B) {
	sales := salesFixture(5000)
	period := domain.Period{From: "2024-05-01", To: "2024-05-31"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = domain.Summarize(period, sales)
	}
}

func BenchmarkBuildSalesWorkbook(b *testing.B) {
	sales := salesFixture(1000)
	summary := domain.Summarize(domain.Period{}, sales)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := workers.BuildSalesWorkbook(summary, sales); err != nil {
			b.Fatal(err)
		}
	}
}
