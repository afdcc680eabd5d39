package importer

import (
	"sort"
	"strings"
)

// Logical column names accepted in a column mapping
const (
	ColDescription = "description"
	ColCategory    = "category"
	ColValue       = "value"
	ColBrand       = "brand"
	ColSubcategory = "subcategory"
	ColStatus      = "status"
)

// defaultLabels maps logical columns to the header labels supplier price
// lists carry. Callers may override any of them via the column mapping.
var defaultLabels = map[string]string{
	ColDescription: "descrição",
	ColCategory:    "categoria",
	ColValue:       "valor",
	ColBrand:       "marca",
	ColSubcategory: "subcategoria",
	ColStatus:      "status",
}

// columnOrder fixes the resolution order so ties resolve the same way on
// every run
var columnOrder = []string{ColDescription, ColCategory, ColValue, ColBrand, ColSubcategory, ColStatus}

// requiredColumns must resolve or the whole batch aborts
var requiredColumns = []string{ColDescription, ColCategory, ColValue}

// resolveColumns maps each logical column to its positional index in the
// header row. Each header cell is claimed by at most one column. Matching
// runs in three passes over lowercase-trimmed cells:
//
//  1. exact equality, so a header that spells out one label can never be
//     claimed by another column;
//  2. cell-contains-label, longest label first, so "subcategoria do item"
//     is claimed by subcategory before category can substring-match it;
//  3. label-contains-cell for truncated headers, shortest label first, so
//     "categ" resolves to categoria rather than subcategoria.
//
// Unresolved optional columns map to -1.
func resolveColumns(header []string, mapping map[string]string) (map[string]int, error) {
	normalized := make([]string, len(header))
	for i, cell := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	labels := make(map[string]string, len(defaultLabels))
	for logical, label := range defaultLabels {
		if override, ok := mapping[logical]; ok && strings.TrimSpace(override) != "" {
			label = override
		}
		labels[logical] = strings.ToLower(strings.TrimSpace(label))
	}

	columns := make(map[string]int, len(labels))
	claimed := make(map[int]bool)
	for _, logical := range columnOrder {
		columns[logical] = -1
	}

	assign := func(logical string, match func(cell, label string) bool) {
		if columns[logical] >= 0 {
			return
		}
		for i, cell := range normalized {
			if cell == "" || claimed[i] {
				continue
			}
			if match(cell, labels[logical]) {
				columns[logical] = i
				claimed[i] = true
				return
			}
		}
	}

	for _, logical := range columnOrder {
		assign(logical, func(cell, label string) bool { return cell == label })
	}
	for _, logical := range byLabelLength(labels, false) {
		assign(logical, func(cell, label string) bool { return strings.Contains(cell, label) })
	}
	for _, logical := range byLabelLength(labels, true) {
		assign(logical, func(cell, label string) bool { return strings.Contains(label, cell) })
	}

	for _, logical := range requiredColumns {
		if columns[logical] < 0 {
			return nil, &MissingColumnError{Column: logical, Label: labels[logical]}
		}
	}

	return columns, nil
}

func byLabelLength(labels map[string]string, shortestFirst bool) []string {
	ordered := append([]string(nil), columnOrder...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if shortestFirst {
			return len(labels[ordered[i]]) < len(labels[ordered[j]])
		}
		return len(labels[ordered[i]]) > len(labels[ordered[j]])
	})
	return ordered
}
