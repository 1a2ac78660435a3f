package validate_test

import (
	"testing"

	"github.com/nikhilverma/shopline/pkg/validate"
)

type productInput struct {
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Email string `json:"email" validate:"required,email"`
	Price int64  `json:"price" validate:"gte=0"`
	Stock int    `json:"stock" validate:"gte=0,lte=100000"`
	Sort  string `json:"sort" validate:"nullable,in=price_asc,price_desc,rating,newest"`
	Site  string `json:"site" validate:"nullable,url"`
}

func valid() productInput {
	return productInput{
		Name:  "Wireless Earbuds",
		Email: "vendor@example.com",
		Price: 7999,
		Stock: 120,
		Sort:  "price_asc",
	}
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(valid())
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected errors for zero struct")
	}
	if _, ok := errs["name"]; !ok {
		t.Errorf("expected name error, got: %v", errs)
	}
	if _, ok := errs["email"]; !ok {
		t.Errorf("expected email error, got: %v", errs)
	}
}

func TestEmailRule(t *testing.T) {
	in := valid()
	in.Email = "not-an-email"
	errs := validate.Struct(in)
	if _, ok := errs["email"]; !ok {
		t.Errorf("expected email error, got: %v", errs)
	}
}

func TestMinMax(t *testing.T) {
	in := valid()
	in.Name = "x"
	if errs := validate.Struct(in); errs["name"] == "" {
		t.Error("expected min failure for one-char name")
	}

	in = valid()
	in.Name = "this product name is way way way way way way too long!!"
	if errs := validate.Struct(in); errs["name"] == "" {
		t.Error("expected max failure for long name")
	}
}

func TestInRule(t *testing.T) {
	in := valid()
	in.Sort = "fastest"
	if errs := validate.Struct(in); errs["sort"] == "" {
		t.Error("expected in failure for unknown sort")
	}

	in.Sort = "" // nullable, empty is fine
	if errs := validate.Struct(in); errs["sort"] != "" {
		t.Errorf("nullable empty sort should pass, got: %v", errs["sort"])
	}
}

func TestNullableURL(t *testing.T) {
	in := valid()
	in.Site = "://bad"
	if errs := validate.Struct(in); errs["site"] == "" {
		t.Error("expected url failure")
	}

	in.Site = "https://example.com"
	if errs := validate.Struct(in); errs["site"] != "" {
		t.Errorf("valid url should pass, got: %v", errs["site"])
	}
}

func TestPointerInput(t *testing.T) {
	in := valid()
	errs := validate.Struct(&in)
	if validate.HasErrors(errs) {
		t.Errorf("pointer input: expected no errors, got: %v", errs)
	}
}
