package normalization

import "testing"

func TestNormalizeEntity(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{raw: "Pedidos", want: "orders"},
		{raw: " order ", want: "orders"},
		{raw: "menu_items", want: "menu"},
		{raw: "GUARNICOES", want: "sides"},
		{raw: "app_settings", want: "settings"},
		{raw: "default", want: ""},
		{raw: "Kitchen_Printers", want: "kitchen-printers"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			if got := NormalizeEntity(tc.raw); got != tc.want {
				t.Fatalf("NormalizeEntity(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestIsValidEntity(t *testing.T) {
	if !IsValidEntity("pedido") {
		t.Fatalf("expected pedido to be valid")
	}
	if IsValidEntity("") || IsValidEntity("tables") {
		t.Fatalf("unexpected valid entity")
	}
	all := GetAllValidEntities()
	all[0] = "mutated"
	if GetAllValidEntities()[0] != "orders" {
		t.Fatalf("GetAllValidEntities must return a copy")
	}
}
