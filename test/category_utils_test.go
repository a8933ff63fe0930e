package main

import (
	"testing"

	"pantry/utils"
)

func TestValidateAndNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Dairy", "dairy", true},
		{"produce", "produce", true},
		{"  PANTRY ", "pantry", true},
		{"electronics", "electronics", false},
	}

	for _, c := range cases {
		got, ok := utils.ValidateAndNormalizeCategory(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ValidateAndNormalizeCategory(%q) = (%q, %v); want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestIsLongShelfLifeCategory(t *testing.T) {
	if !utils.IsLongShelfLifeCategory("pantry") {
		t.Fatalf("expected pantry to be long shelf life")
	}
	if !utils.IsLongShelfLifeCategory("Sauces") {
		t.Fatalf("expected sauces to be long shelf life regardless of case")
	}
	if utils.IsLongShelfLifeCategory("dairy") {
		t.Fatalf("expected dairy to not be long shelf life")
	}
}
