// Package resource shapes models into API output. A transformer decides
// exactly which fields leave the service, so internal columns like the
// encrypted gateway reference never leak into a response.
//
//	func productItem(p models.Product) resource.Map {
//	    return resource.Map{"id": p.ID, "name": p.Name, "price": p.Price}
//	}
//
//	response.Success(w, resource.Items(products, productItem))
package resource

// Map is the output shape of a transformer.
type Map = map[string]interface{}

// Item applies fn to a single model.
func Item[T any](v T, fn func(T) Map) Map {
	return fn(v)
}

// Items applies fn to every element of s. The result is never nil, so an
// empty slice serializes as [] instead of null.
func Items[T any](s []T, fn func(T) Map) []Map {
	out := make([]Map, 0, len(s))
	for _, v := range s {
		out = append(out, fn(v))
	}
	return out
}
