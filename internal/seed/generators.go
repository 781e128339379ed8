package seed

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	financedomain "github.com/widgetco/fulfillment/internal/domains/finance/domain"
	inventorydomain "github.com/widgetco/fulfillment/internal/domains/inventory/domain"
	ordersdomain "github.com/widgetco/fulfillment/internal/domains/orders/domain"
)

// orderMarketVariance is the uniform price variance applied to generated
// orders, simulating market conditions and negotiation.
const orderMarketVariance = 0.10

// Generator produces the synthetic world a simulation starts from. All draws
// come from one seeded source, so equal seeds produce equal worlds.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

var firstNames = []string{
	"Ava", "Noah", "Mia", "Liam", "Zoe", "Ethan", "Ruth", "Omar", "Ines", "Hugo",
	"Dana", "Felix", "Nora", "Ivan", "Lucia", "Marcus", "Priya", "Chen", "Aisha", "Diego",
	"Elena", "Kofi", "Sana", "Tomas", "Greta", "Jamal", "Yuki", "Pavel", "Rosa", "Henrik",
}

var lastNames = []string{
	"Reyes", "Park", "Nguyen", "Okafor", "Silva", "Meyer", "Kowalski", "Haddad", "Larsen", "Moreau",
	"Tanaka", "Petrov", "Costa", "Ali", "Johansson", "Weber", "Romano", "Singh", "Novak", "Diaz",
	"Fischer", "Santos", "Kim", "Dubois", "Eriksen", "Mensah", "Ortiz", "Vogel", "Ibrahim", "Lindgren",
}

var companySuffixes = []string{"Corp", "LLC", "Industries", "Group", "Ltd", "Partners", "Manufacturing", "Systems"}

// CustomerNames returns a pool of customer names, a mix of individuals and
// companies.
func (g *Generator) CustomerNames(count int) []string {
	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		first := firstNames[g.rng.Intn(len(firstNames))]
		last := lastNames[g.rng.Intn(len(lastNames))]
		if g.rng.Intn(4) == 0 {
			names = append(names, fmt.Sprintf("%s %s %s", first, last, companySuffixes[g.rng.Intn(len(companySuffixes))]))
			continue
		}
		names = append(names, fmt.Sprintf("%s %s", first, last))
	}
	return names
}

var jobTitles = []string{
	"Assembly Worker",
	"Test Engineer",
	"Quality Inspector",
	"Shipping Clerk",
	"Inventory Manager",
	"Production Supervisor",
	"Accountant",
	"Sales Representative",
	"Purchasing Agent",
	"Maintenance Technician",
	"Production Planner",
	"Warehouse Manager",
	"Quality Assurance Manager",
	"Manufacturing Engineer",
	"Supply Chain Coordinator",
	"HR Manager",
	"IT Support Specialist",
	"Operations Manager",
	"CEO",
	"CFO",
}

// annualSalaryRange buckets titles into compensation bands.
func annualSalaryRange(title string) (float64, float64) {
	switch title {
	case "CEO", "CFO":
		return 120000, 150000
	case "Operations Manager", "Quality Assurance Manager", "Warehouse Manager":
		return 70000, 100000
	case "Manufacturing Engineer", "Production Supervisor", "IT Support Specialist", "HR Manager":
		return 55000, 75000
	case "Test Engineer", "Accountant", "Production Planner":
		return 50000, 70000
	default:
		return 30000, 55000
	}
}

// Employees generates the payroll roster with weekly salaries derived from
// per-title annual bands.
func (g *Generator) Employees(count int) []*financedomain.Employee {
	employees := make([]*financedomain.Employee, 0, count)
	for i := 0; i < count; i++ {
		title := jobTitles[g.rng.Intn(len(jobTitles))]
		low, high := annualSalaryRange(title)
		annual := low + g.rng.Float64()*(high-low)
		weekly := math.Round(annual/52*100) / 100
		first := firstNames[g.rng.Intn(len(firstNames))]
		last := lastNames[g.rng.Intn(len(lastNames))]
		employees = append(employees, &financedomain.Employee{
			Name:         fmt.Sprintf("%s %s", first, last),
			Title:        title,
			WeeklySalary: weekly,
		})
	}
	return employees
}

// partCategories maps a part family to how many numbered variants exist.
var partCategories = map[string]int{
	"Screw": 20, "Bolt": 15, "Nut": 15, "Washer": 10,
	"Circuit-Board": 8, "Panel": 12, "Cable": 10, "Connector": 15,
	"Housing": 6, "Display": 5, "Button": 8, "Switch": 8,
	"Motor": 5, "Sensor": 10, "Battery": 4, "LED": 12,
	"Capacitor": 20, "Resistor": 20, "Chip": 10, "Frame": 5,
}

var partCategoryNames = sortedCategoryNames()

func sortedCategoryNames() []string {
	names := make([]string, 0, len(partCategories))
	for name := range partCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g *Generator) partName() string {
	category := partCategoryNames[g.rng.Intn(len(partCategoryNames))]
	return fmt.Sprintf("%s-%d", category, 1+g.rng.Intn(partCategories[category]))
}

// BOMs generates a bill of materials for every product in the catalog. Each
// product gets 5 to 25 distinct parts, and a sample of parts is shared across
// products so restock demand overlaps.
func (g *Generator) BOMs() []inventorydomain.BOMEntry {
	productParts := map[ordersdomain.Product]map[string]bool{}
	allParts := map[string]bool{}
	for _, product := range ordersdomain.Products {
		count := 5 + g.rng.Intn(21)
		parts := map[string]bool{}
		for len(parts) < count {
			parts[g.partName()] = true
		}
		productParts[product] = parts
		for part := range parts {
			allParts[part] = true
		}
	}

	// Share a slice of the universe across every product.
	universe := make([]string, 0, len(allParts))
	for part := range allParts {
		universe = append(universe, part)
	}
	sort.Strings(universe)
	g.rng.Shuffle(len(universe), func(i, j int) { universe[i], universe[j] = universe[j], universe[i] })
	commonCount := len(universe) * 15 / 100
	if commonCount < 3 {
		commonCount = 3
	}
	common := universe[:commonCount]
	for _, product := range ordersdomain.Products {
		shared := 2 + g.rng.Intn(minInt(4, len(common)-1))
		for _, part := range common[:shared] {
			productParts[product][part] = true
		}
	}

	var entries []inventorydomain.BOMEntry
	for _, product := range ordersdomain.Products {
		parts := make([]string, 0, len(productParts[product]))
		for part := range productParts[product] {
			parts = append(parts, part)
		}
		sort.Strings(parts)
		for _, part := range parts {
			entries = append(entries, inventorydomain.BOMEntry{
				Product:        string(product),
				Part:           part,
				QuantityNeeded: 1 + g.rng.Intn(20),
				UnitCost:       math.Round((0.25+g.rng.Float64()*24.75)*100) / 100,
			})
		}
	}
	return entries
}

// InitialInventory sizes starting stock to build the given number of units
// of every product: per part, the sum of quantity-needed across all entries
// times the build target.
func InitialInventory(entries []inventorydomain.BOMEntry, buildUnits int) []inventorydomain.Level {
	required := map[string]int{}
	for _, entry := range entries {
		required[entry.Part] += entry.QuantityNeeded * buildUnits
	}
	parts := make([]string, 0, len(required))
	for part := range required {
		parts = append(parts, part)
	}
	sort.Strings(parts)
	levels := make([]inventorydomain.Level, 0, len(parts))
	for _, part := range parts {
		levels = append(levels, inventorydomain.Level{Part: part, Quantity: required[part]})
	}
	return levels
}

// OrderSpec is one generated customer order, ready for the order ledger.
type OrderSpec struct {
	Customer          string
	Product           ordersdomain.Product
	Quantity          int
	UnitPrice         float64
	OrderedAt         time.Time
	PredictedShipDate time.Time
}

// Order draws one random order: a customer from the pool, a product, a
// quantity of 1 to 20, and a unit price that targets the default gross
// margin over the product's material cost with market variance applied.
// The predicted ship date lands 7 to 14 days out.
func (g *Generator) Order(at time.Time, customers []string, costOf func(ordersdomain.Product) (float64, error)) (OrderSpec, error) {
	if len(customers) == 0 {
		return OrderSpec{}, fmt.Errorf("customer pool is empty")
	}
	product := ordersdomain.Products[g.rng.Intn(len(ordersdomain.Products))]
	cost, err := costOf(product)
	if err != nil {
		return OrderSpec{}, err
	}
	basePrice := ordersdomain.PriceForMargin(cost, ordersdomain.DefaultTargetMargin)
	variance := (g.rng.Float64()*2 - 1) * orderMarketVariance
	return OrderSpec{
		Customer:          customers[g.rng.Intn(len(customers))],
		Product:           product,
		Quantity:          1 + g.rng.Intn(20),
		UnitPrice:         ordersdomain.ApplyMarketVariance(basePrice, variance),
		OrderedAt:         at,
		PredictedShipDate: at.AddDate(0, 0, 7+g.rng.Intn(8)),
	}, nil
}

// OrdersPerDay draws how many orders arrive on a given morning, 0 to 20.
func (g *Generator) OrdersPerDay() int {
	return g.rng.Intn(21)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
