package validation

import (
	"reflect"
	"testing"
)

func TestPasswordPolicy_Check(t *testing.T) {
	p := DefaultPasswordPolicy()
	tests := []struct {
		name     string
		password string
		attrs    []string
		want     []string
	}{
		{"strong", "Kx9!vTq2#mLp", []string{"mehmet", "mehmet@example.com"}, nil},
		{"too short", "aB3$x", nil, []string{CodePasswordTooShort}},
		{"numeric", "9081726354", nil, []string{CodePasswordNumeric}},
		{"common", "password123", nil, []string{CodePasswordCommon}},
		{"short common numeric", "123456", nil, []string{CodePasswordTooShort, CodePasswordCommon, CodePasswordNumeric}},
		{"similar to username", "mehmetyilmaz1", []string{"mehmetyilmaz"}, []string{CodePasswordSimilar}},
		{"similar to email part", "aysekaya7", []string{"aysekaya@example.com"}, []string{CodePasswordSimilar}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Check(tt.password, tt.attrs...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Check(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestPasswordPolicy_Validate(t *testing.T) {
	p := DefaultPasswordPolicy()
	v := make(Violations)
	p.Validate("password", "1234", v)
	if v["password"] != CodePasswordTooShort {
		t.Fatalf("expected first rule code, got %v", v)
	}
}

func TestQuickRatio(t *testing.T) {
	if r := quickRatio("abc", "abc"); r != 1 {
		t.Fatalf("identical strings ratio = %f", r)
	}
	if r := quickRatio("abc", "xyz"); r != 0 {
		t.Fatalf("disjoint strings ratio = %f", r)
	}
	if r := quickRatio("ab", "abcd"); r < 0.66 || r > 0.67 {
		t.Fatalf("ratio = %f, want ~0.667", r)
	}
}
