// internal/handlers/routes.go
package handlers

import "net/http"

// Routes groups the handlers served by the API process
type Routes struct {
	Health      *HealthHandler
	Collections *CollectionsHandler
	Sales       *SalesHandler
	Inventory   *InventoryHandler
	Catalog     *CatalogHandler
	Reports     *ReportsHandler
}

// Register wires every endpoint onto mux using method-specific patterns
func (rt *Routes) Register(mux *http.ServeMux) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", rt.Health.Health)
	mux.HandleFunc("GET /ready", rt.Health.Readiness)
	mux.HandleFunc("GET "+apiV1+"/health", rt.Health.Detailed)

	// Typed endpoints
	mux.HandleFunc("POST "+apiV1+"/sales", rt.Sales.RecordSale)
	mux.HandleFunc("DELETE "+apiV1+"/sales/{id}", rt.Sales.DeleteSale)
	mux.HandleFunc("GET "+apiV1+"/sales/summary", rt.Sales.Summary)

	mux.HandleFunc("POST "+apiV1+"/inventory/{productId}/increment", rt.Inventory.Increment)
	mux.HandleFunc("POST "+apiV1+"/inventory/{productId}/decrement", rt.Inventory.Decrement)
	mux.HandleFunc("PUT "+apiV1+"/inventory/{productId}/sizes/{size}", rt.Inventory.SetQuantity)
	mux.HandleFunc("GET "+apiV1+"/inventory/{productId}/stock", rt.Inventory.Stock)

	mux.HandleFunc("GET "+apiV1+"/catalog/products", rt.Catalog.ListProducts)
	mux.HandleFunc("GET "+apiV1+"/catalog/products/{id}", rt.Catalog.GetProduct)
	mux.HandleFunc("POST "+apiV1+"/catalog/products", rt.Catalog.CreateProduct)
	mux.HandleFunc("PUT "+apiV1+"/catalog/products/{id}", rt.Catalog.UpdateProduct)
	mux.HandleFunc("GET "+apiV1+"/catalog/facets", rt.Catalog.Facets)

	mux.HandleFunc("POST "+apiV1+"/reports/sales", rt.Reports.RequestSalesExport)
	mux.HandleFunc("GET "+apiV1+"/reports/{id}", rt.Reports.ReportStatus)

	// Generic document proxy
	mux.HandleFunc("GET /api/{collection}", rt.Collections.List)
	mux.HandleFunc("GET /api/{collection}/{id}", rt.Collections.Get)
	mux.HandleFunc("POST /api/{collection}", rt.Collections.Create)
	mux.HandleFunc("PATCH /api/{collection}", rt.Collections.Update)
	mux.HandleFunc("PATCH /api/{collection}/{id}", rt.Collections.UpdateByID)
	mux.HandleFunc("DELETE /api/{collection}", rt.Collections.Delete)
	mux.HandleFunc("DELETE /api/{collection}/{id}", rt.Collections.DeleteByID)
}
