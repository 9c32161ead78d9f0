package models

// ItemType tags catalog entries for regulatory detail capture.
type ItemType string

const (
	ItemDrug    ItemType = "MEDICAMENTO"
	ItemDevice  ItemType = "DISPOSITIVO"
	ItemReagent ItemType = "REACTIVO"
	ItemSupply  ItemType = "INSUMO"
)

// InventoryItem is static reference data; it is never edited by users.
type InventoryItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	RequiredStock int      `json:"requiredStock"`
	Category      string   `json:"category"`
	Type          ItemType `json:"type"`
}

// CrewCategories lists crew catalog categories in display order.
var CrewCategories = []string{
	"MEDICAMENTOS",
	"SOLUCIONES",
	"DISPOSITIVOS",
	"INSUMOS",
}

// CrewItems is the supply catalog checked daily by crew units.
var CrewItems = []InventoryItem{
	{ID: "med-adrenalina", Name: "Adrenalina 1 mg/ml", RequiredStock: 10, Category: "MEDICAMENTOS", Type: ItemDrug},
	{ID: "med-atropina", Name: "Atropina 1 mg/ml", RequiredStock: 5, Category: "MEDICAMENTOS", Type: ItemDrug},
	{ID: "med-amiodarona", Name: "Amiodarona 150 mg", RequiredStock: 3, Category: "MEDICAMENTOS", Type: ItemDrug},
	{ID: "med-dipirona", Name: "Dipirona 1 g", RequiredStock: 5, Category: "MEDICAMENTOS", Type: ItemDrug},
	{ID: "med-salbutamol", Name: "Salbutamol inhalador", RequiredStock: 1, Category: "MEDICAMENTOS", Type: ItemDrug},
	{ID: "sol-ssn500", Name: "Solución salina 0.9% 500 ml", RequiredStock: 6, Category: "SOLUCIONES", Type: ItemDrug},
	{ID: "sol-hartmann", Name: "Lactato de Ringer 500 ml", RequiredStock: 4, Category: "SOLUCIONES", Type: ItemDrug},
	{ID: "sol-dad10", Name: "Dextrosa 10% 500 ml", RequiredStock: 2, Category: "SOLUCIONES", Type: ItemDrug},
	{ID: "dis-cateter18", Name: "Catéter IV N.18", RequiredStock: 5, Category: "DISPOSITIVOS", Type: ItemDevice},
	{ID: "dis-cateter20", Name: "Catéter IV N.20", RequiredStock: 5, Category: "DISPOSITIVOS", Type: ItemDevice},
	{ID: "dis-equipo-macro", Name: "Equipo macrogoteo", RequiredStock: 4, Category: "DISPOSITIVOS", Type: ItemDevice},
	{ID: "dis-canula-nasal", Name: "Cánula nasal adulto", RequiredStock: 3, Category: "DISPOSITIVOS", Type: ItemDevice},
	{ID: "rea-glucometria", Name: "Tirillas de glucometría", RequiredStock: 25, Category: "INSUMOS", Type: ItemReagent},
	{ID: "ins-guantes", Name: "Guantes de examen (par)", RequiredStock: 50, Category: "INSUMOS", Type: ItemSupply},
	{ID: "ins-gasas", Name: "Gasas estériles", RequiredStock: 20, Category: "INSUMOS", Type: ItemSupply},
	{ID: "ins-jeringa5", Name: "Jeringa 5 ml", RequiredStock: 10, Category: "INSUMOS", Type: ItemSupply},
}

// DriverCategories lists driver catalog categories in display order.
var DriverCategories = []string{
	"DOCUMENTOS",
	"LÍQUIDOS",
	"LUCES",
	"SEGURIDAD",
}

// DriverItems is the vehicle inspection catalog graded B/R/M by drivers.
var DriverItems = []InventoryItem{
	{ID: "doc-licencia", Name: "Licencia de conducción", RequiredStock: 1, Category: "DOCUMENTOS", Type: ItemSupply},
	{ID: "doc-soat", Name: "SOAT vigente", RequiredStock: 1, Category: "DOCUMENTOS", Type: ItemSupply},
	{ID: "doc-tecnomecanica", Name: "Revisión técnico-mecánica", RequiredStock: 1, Category: "DOCUMENTOS", Type: ItemSupply},
	{ID: "liq-aceite", Name: "Nivel de aceite", RequiredStock: 1, Category: "LÍQUIDOS", Type: ItemSupply},
	{ID: "liq-refrigerante", Name: "Nivel de refrigerante", RequiredStock: 1, Category: "LÍQUIDOS", Type: ItemSupply},
	{ID: "liq-frenos", Name: "Líquido de frenos", RequiredStock: 1, Category: "LÍQUIDOS", Type: ItemSupply},
	{ID: "luz-delanteras", Name: "Luces delanteras", RequiredStock: 1, Category: "LUCES", Type: ItemSupply},
	{ID: "luz-balizas", Name: "Balizas y sirena", RequiredStock: 1, Category: "LUCES", Type: ItemSupply},
	{ID: "seg-extintor", Name: "Extintor", RequiredStock: 1, Category: "SEGURIDAD", Type: ItemSupply},
	{ID: "seg-botiquin", Name: "Botiquín de carretera", RequiredStock: 1, Category: "SEGURIDAD", Type: ItemSupply},
	{ID: "seg-llanta", Name: "Llanta de repuesto", RequiredStock: 1, Category: "SEGURIDAD", Type: ItemSupply},
}

// ItemsFor returns the catalog used by the given unit kind.
func ItemsFor(kind UnitKind) []InventoryItem {
	if kind == UnitDriver {
		return DriverItems
	}
	return CrewItems
}

// FindItem looks an item up by id inside a catalog.
func FindItem(items []InventoryItem, id string) (InventoryItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return InventoryItem{}, false
}
