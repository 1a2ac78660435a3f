// Package graphqlapi exposes a read-only GraphQL view of the catalogue
// for the storefront. Writes stay on the REST API.
package graphqlapi

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/app/repositories"
	"github.com/nikhilverma/shopline/app/services"
	"github.com/nikhilverma/shopline/pkg/logger"
	"github.com/nikhilverma/shopline/pkg/response"
)

// The id resolvers are explicit because gorm.Model is embedded and the
// default resolver only sees top-level struct fields.
var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				// Nested under Product the source is a pointer.
				if c, ok := p.Source.(*models.Category); ok {
					return c.ID, nil
				}
				return p.Source.(models.Category).ID, nil
			},
		},
		"name":        &graphql.Field{Type: graphql.String},
		"slug":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).ID, nil
			},
		},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"sku":         &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Int, Description: "Price in minor currency units."},
		"stock":       &graphql.Field{Type: graphql.Int},
		"imageUrl": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).ImageURL, nil
			},
		},
		"ratingAvg": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).RatingAvg, nil
			},
		},
		"ratingCount": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).RatingCount, nil
			},
		},
		"category": &graphql.Field{Type: categoryType},
	},
})

// NewSchema builds the catalogue query schema against the given service.
func NewSchema(catalog *services.CatalogService) (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"search":     &graphql.ArgumentConfig{Type: graphql.String},
					"categoryId": &graphql.ArgumentConfig{Type: graphql.Int},
					"sort":       &graphql.ArgumentConfig{Type: graphql.String},
					"page":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := repositories.ProductFilter{
						Page:  p.Args["page"].(int),
						Limit: p.Args["limit"].(int),
					}
					if s, ok := p.Args["search"].(string); ok {
						filter.Search = s
					}
					if id, ok := p.Args["categoryId"].(int); ok {
						filter.CategoryID = uint(id)
					}
					if s, ok := p.Args["sort"].(string); ok {
						filter.Sort = s
					}
					products, _, err := catalog.Search(filter)
					return products, err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.GetProduct(uint(p.Args["id"].(int)))
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.Categories()
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Handler serves POST /api/graphql.
func Handler() http.HandlerFunc {
	schema, err := NewSchema(services.NewCatalogService())
	if err != nil {
		logger.Error("graphql: schema build failed", "error", err)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var body graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "malformed request body")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})

		// GraphQL carries errors in-band; the transport stays 200.
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}
