package controller

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ZuLoiZo/ShopSphere/service"
)

func TestDefaultListCacheable(t *testing.T) {
	base := service.ProductFilter{Page: 1, PageSize: service.DefaultProductPageSize}
	assert.True(t, defaultListCacheable(base))

	price := decimal.RequireFromString("10.00")

	tests := []struct {
		name   string
		filter service.ProductFilter
	}{
		{"non-default page size", service.ProductFilter{Page: 1, PageSize: 50}},
		{"zero page size", service.ProductFilter{Page: 1}},
		{"second page", service.ProductFilter{Page: 2, PageSize: service.DefaultProductPageSize}},
		{"search", service.ProductFilter{Page: 1, PageSize: service.DefaultProductPageSize, Search: "key"}},
		{"category", service.ProductFilter{Page: 1, PageSize: service.DefaultProductPageSize, CategoryID: 3}},
		{"min price", service.ProductFilter{Page: 1, PageSize: service.DefaultProductPageSize, MinPrice: &price}},
		{"max price", service.ProductFilter{Page: 1, PageSize: service.DefaultProductPageSize, MaxPrice: &price}},
		{"include inactive", service.ProductFilter{Page: 1, PageSize: service.DefaultProductPageSize, IncludeInactive: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, defaultListCacheable(tt.filter),
				"a %s request must not be served from or stored under the default list key", tt.name)
		})
	}
}
