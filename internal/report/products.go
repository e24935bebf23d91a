package report

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"northwind-dashboard/internal/models"
)

const (
	// CategoryThreshold is the product count below which a category is folded into OtherCategories.
	CategoryThreshold = 5
	OtherCategories   = "Other categories"

	StatusActive       = "Active"
	StatusDiscontinued = "Discontinued"
)

var (
	statusLabels = map[int]string{0: StatusActive, 1: StatusDiscontinued}
	statusOrder  = []int{0, 1}
)

// CategoryProductCounts counts products per category, joined to the category
// name. Categories under CategoryThreshold are relabeled OtherCategories
// before summing. Products whose category is unknown are dropped and their
// number returned alongside.
func CategoryProductCounts(products []models.Product, categories []models.Category) ([]models.CategoryCount, int) {
	names := lo.SliceToMap(categories, func(c models.Category) (int, string) {
		return c.ID, c.Name
	})
	perCategory := lo.CountValuesBy(products, func(p models.Product) int {
		return p.CategoryID
	})

	// folded marks the synthetic bucket, so a stored category that happens
	// to be named OtherCategories keeps its own row.
	type bucket struct {
		name   string
		folded bool
	}

	orphans := 0
	buckets := make(map[bucket]int, len(perCategory))
	for id, count := range perCategory {
		name, ok := names[id]
		if !ok {
			orphans += count
			continue
		}
		key := bucket{name: name}
		if count < CategoryThreshold {
			key = bucket{name: OtherCategories, folded: true}
		}
		buckets[key] += count
	}

	keys := lo.Keys(buckets)
	slices.SortFunc(keys, func(a, b bucket) int {
		switch {
		case a.folded && !b.folded:
			return 1
		case b.folded && !a.folded:
			return -1
		}
		if c := cmp.Compare(buckets[b], buckets[a]); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	result := lo.Map(keys, func(k bucket, _ int) models.CategoryCount {
		return models.CategoryCount{Category: k.name, Count: buckets[k]}
	})
	return result, orphans
}

// ProductStatus counts products by discontinued flag. Only flags that occur
// are reported, Active before Discontinued.
func ProductStatus(products []models.Product) ([]models.StatusCount, error) {
	counts := make(map[int]int, len(statusLabels))
	for _, p := range products {
		if _, ok := statusLabels[p.Discontinued]; !ok {
			return nil, &UnexpectedEnumValueError{Field: "Discontinued", ProductID: p.ID, Value: p.Discontinued}
		}
		counts[p.Discontinued]++
	}

	result := make([]models.StatusCount, 0, len(counts))
	for _, flag := range statusOrder {
		if n := counts[flag]; n > 0 {
			result = append(result, models.StatusCount{Status: statusLabels[flag], Count: n})
		}
	}
	return result, nil
}
