// Package seed writes the demo menu used by local runs and the in-memory backend.
package seed

import (
	"context"
	"fmt"

	"mechanical-burger/internal/model"
	"mechanical-burger/internal/service"

	"github.com/rs/zerolog"
)

// Result reports what was written.
type Result struct {
	Categories     int
	MenuItems      int
	Customizations int
	Skipped        bool
}

type demoItem struct {
	name        string
	price       float64
	category    string
	image       string
	ingredients []string
}

type demoOption struct {
	name     string
	kind     model.CustomizationKind
	price    float64
	category string // empty applies to every category
}

const imageQuery = "?auto=compress&cs=tinysrgb&w=400"

// The house menu: three categories, six burgers and eight options offered on
// every burger. Item categories refer to the names above.
var (
	demoCategories = []model.Category{
		{Name: "Signature", Description: "The burgers the garage is known for"},
		{Name: "Classic", Description: "Straightforward builds that never break down"},
		{Name: "Specialty", Description: "Smoked, spiced and tuned for the bold"},
	}

	demoItems = []demoItem{
		{
			name: "Turbo Charge", price: 18.99, category: "Signature",
			image:       "https://images.pexels.com/photos/1639562/pexels-photo-1639562.jpeg" + imageQuery,
			ingredients: []string{"Angus beef patty", "Turbo sauce", "Nitrous pickles", "Racing cheese", "Speed lettuce"},
		},
		{
			name: "Engine Block", price: 24.99, category: "Signature",
			image:       "https://images.pexels.com/photos/1556698/pexels-photo-1556698.jpeg" + imageQuery,
			ingredients: []string{"Double beef patties", "Motor oil glaze", "Piston rings onions", "Carburetor cheese"},
		},
		{
			name: "Gear Shift", price: 16.99, category: "Classic",
			image:       "https://images.pexels.com/photos/2983101/pexels-photo-2983101.jpeg" + imageQuery,
			ingredients: []string{"Grilled chicken breast", "Transmission sauce", "Clutch lettuce", "Gear cheese"},
		},
		{
			name: "Exhaust Pipe", price: 19.99, category: "Specialty",
			image:       "https://images.pexels.com/photos/1633578/pexels-photo-1633578.jpeg" + imageQuery,
			ingredients: []string{"BBQ beef patty", "Exhaust sauce", "Smoke rings onions", "Chrome cheese"},
		},
		{
			name: "Brake Fluid", price: 17.99, category: "Specialty",
			image:       "https://images.pexels.com/photos/1841834/pexels-photo-1841834.jpeg" + imageQuery,
			ingredients: []string{"Spicy beef patty", "Brake fluid sauce", "Jalapeño discs", "High-friction cheese"},
		},
		{
			name: "Classic Carburetor", price: 14.99, category: "Classic",
			image:       "https://images.pexels.com/photos/1199957/pexels-photo-1199957.jpeg" + imageQuery,
			ingredients: []string{"Classic beef patty", "Carburetor sauce", "Vintage lettuce", "Old-school cheese"},
		},
	}

	demoOptions = []demoOption{
		{name: "Remove pickles", kind: model.CustomizationRemove},
		{name: "Remove onions", kind: model.CustomizationRemove},
		{name: "Remove cheese", kind: model.CustomizationRemove},
		{name: "Extra cheese", kind: model.CustomizationExtra, price: 2.5},
		{name: "Turbo bacon", kind: model.CustomizationAdd, price: 3.5},
		{name: "Double engine", kind: model.CustomizationAdd, price: 5.99},
		{name: "Nitrous sauce", kind: model.CustomizationAdd, price: 1.5},
		{name: "Carbon fiber bun", kind: model.CustomizationAdd, price: 2},
	}
)

// Menu writes the demo menu through the catalog service. It does nothing
// when categories already exist unless force is set.
func Menu(ctx context.Context, catalog service.CatalogService, force bool, logger zerolog.Logger) (Result, error) {
	logger = logger.With().Str("component", "seed").Logger()

	existing, err := catalog.ListCategories(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(existing) > 0 && !force {
		logger.Info().Int("categories", len(existing)).Msg("menu already present, skipping seed")
		return Result{Skipped: true}, nil
	}

	var res Result
	categoryIDs := make(map[string]string, len(demoCategories))
	for _, c := range demoCategories {
		id, err := catalog.CreateCategory(ctx, c)
		if err != nil {
			return res, fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
		categoryIDs[c.Name] = id
		res.Categories++
	}

	for _, it := range demoItems {
		_, err := catalog.CreateMenuItem(ctx, model.MenuItem{
			Name:        it.name,
			Price:       it.price,
			Image:       it.image,
			Ingredients: it.ingredients,
			CategoryID:  categoryIDs[it.category],
		})
		if err != nil {
			return res, fmt.Errorf("failed to seed burger %q: %w", it.name, err)
		}
		res.MenuItems++
	}

	for _, o := range demoOptions {
		_, err := catalog.CreateCustomization(ctx, model.CustomizationOption{
			Name:       o.name,
			Kind:       o.kind,
			Price:      o.price,
			CategoryID: categoryIDs[o.category],
			IsActive:   true,
		})
		if err != nil {
			return res, fmt.Errorf("failed to seed customization %q: %w", o.name, err)
		}
		res.Customizations++
	}

	logger.Info().
		Int("categories", res.Categories).
		Int("burgers", res.MenuItems).
		Int("customizations", res.Customizations).
		Msg("demo menu seeded")

	return res, nil
}
