package services

import (
	"reflect"
	"testing"
)

func TestResolveSelection(t *testing.T) {
	filters := Filters{
		Countries: []string{"France", "Germany"},
		Years:     []int{2012, 2013},
	}

	tests := []struct {
		name          string
		countries     []string
		years         []string
		wantCountries []string
		wantYears     []int
		wantErr       bool
	}{
		{
			name:          "absent selects all",
			wantCountries: []string{"France", "Germany"},
			wantYears:     []int{2012, 2013},
		},
		{
			name:          "explicit values",
			countries:     []string{" France "},
			years:         []string{"2013"},
			wantCountries: []string{"France"},
			wantYears:     []int{2013},
		},
		{
			name:          "explicit empty selects none",
			countries:     []string{},
			years:         []string{""},
			wantCountries: []string{},
			wantYears:     []int{},
		},
		{
			name:          "duplicates and unknown values dropped",
			countries:     []string{"France", "France", "Narnia"},
			years:         []string{"2013", "2013", "1999"},
			wantCountries: []string{"France"},
			wantYears:     []int{2013},
		},
		{
			name:          "only unknown values selects none",
			countries:     []string{"Narnia"},
			wantCountries: []string{},
			wantYears:     []int{2012, 2013},
		},
		{
			name:    "non numeric year",
			years:   []string{"2012", "later"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ResolveSelection(tt.countries, tt.years, filters)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(sel.Countries, tt.wantCountries) {
				t.Errorf("Countries = %#v, want %#v", sel.Countries, tt.wantCountries)
			}
			if !reflect.DeepEqual(sel.Years, tt.wantYears) {
				t.Errorf("Years = %#v, want %#v", sel.Years, tt.wantYears)
			}
		})
	}
}
