package config

import (
	"reflect"
	"testing"

	"github.com/spf13/viper"
)

func TestGetFloatSliceFromString(t *testing.T) {
	v := viper.New()
	v.Set("amounts", "100, 500,1000")

	got, err := getFloatSlice(v, "amounts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{100, 500, 1000}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("amounts mismatch: %v != %v", got, want)
	}
}

func TestGetFloatSliceFromList(t *testing.T) {
	v := viper.New()
	v.Set("amounts", []interface{}{100.5, "250"})

	got, err := getFloatSlice(v, "amounts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{100.5, 250}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("amounts mismatch: %v != %v", got, want)
	}
}

func TestGetFloatSliceInvalid(t *testing.T) {
	v := viper.New()
	v.Set("amounts", "100,abc")

	if _, err := getFloatSlice(v, "amounts"); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}

func TestGetFloatSliceUnset(t *testing.T) {
	v := viper.New()

	got, err := getFloatSlice(v, "amounts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unset key, got %v", got)
	}
}
