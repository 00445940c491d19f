package normalization

import "strings"

// entityAliases maps the names other systems use for our entities to the
// canonical topic prefix. Database webhooks send table names ("pedidos"),
// older clients send singulars.
var entityAliases = map[string]string{
	"":        "",
	"-":       "",
	"default": "",

	"order":   "orders",
	"orders":  "orders",
	"pedido":  "orders",
	"pedidos": "orders",

	"menu":        "menu",
	"menus":       "menu",
	"menu-item":   "menu",
	"menu-items":  "menu",
	"daily-menu":  "menu",
	"cardapio":    "menu",
	"menu-diario": "menu",

	"side":           "sides",
	"sides":          "sides",
	"guarnicao":      "sides",
	"guarnicoes":     "sides",
	"daily-sides":    "sides",
	"side-templates": "sides",

	"setting":      "settings",
	"settings":     "settings",
	"app-settings": "settings",
}

var validEntities = []string{"orders", "menu", "sides", "settings"}

// NormalizeEntity converts the various spellings of an entity to its
// canonical form.
//
//	NormalizeEntity("Pedidos") => "orders"
//	NormalizeEntity("menu_items") => "menu"
func NormalizeEntity(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	normalized := strings.ReplaceAll(trimmed, "_", "-")

	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}

// IsValidEntity checks if the given entity name is a known entity type.
func IsValidEntity(raw string) bool {
	normalized := NormalizeEntity(raw)
	for _, entity := range validEntities {
		if entity == normalized {
			return true
		}
	}
	return false
}

// GetAllValidEntities returns a list of all valid canonical entity names.
func GetAllValidEntities() []string {
	out := make([]string, len(validEntities))
	copy(out, validEntities)
	return out
}
