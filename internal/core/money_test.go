package core

import (
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "integer", input: "500", want: "500"},
		{name: "negative integer", input: "-500", want: "-500"},
		{name: "explicit plus", input: "+500", want: "500"},
		{name: "dot separator", input: "1234.56", want: "1234.56"},
		{name: "comma separator", input: "1234,56", want: "1234.56"},
		{name: "negative comma", input: "-12,5", want: "-12.5"},
		{name: "surrounding spaces", input: " 42 ", want: "42"},
		{name: "empty", input: "", wantErr: ErrInvalidAmount},
		{name: "double separator", input: "12.34.56", wantErr: ErrInvalidAmount},
		{name: "mixed separators", input: "1,234.56", wantErr: ErrInvalidAmount},
		{name: "zero", input: "0", wantErr: ErrZeroAmount},
		{name: "zero with fraction", input: "0.00", wantErr: ErrZeroAmount},
		{name: "words", input: "lunch", wantErr: ErrInvalidAmount},
		{name: "trailing junk", input: "12x", wantErr: ErrInvalidAmount},
		{name: "inner sign", input: "12-34", wantErr: ErrInvalidAmount},
		{name: "double sign", input: "--5", wantErr: ErrInvalidAmount},
		{name: "lone sign", input: "-", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("ParseAmount(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.Amount.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got.Amount, tt.want)
			}
		})
	}
}

func TestParseAmountSeparatorsEquivalent(t *testing.T) {
	dot, err := ParseAmount("1234.56")
	if err != nil {
		t.Fatal(err)
	}
	comma, err := ParseAmount("1234,56")
	if err != nil {
		t.Fatal(err)
	}
	if !dot.Equal(comma) {
		t.Errorf("dot and comma forms differ: %s vs %s", dot, comma)
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"500", "500.00"},
		{"-500", "-500.00"},
		{"12.5", "12.50"},
		{"12.345", "12.345"},
	}
	for _, tt := range tests {
		if got := MustAmount(tt.input).String(); got != tt.want {
			t.Errorf("String(%s) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
