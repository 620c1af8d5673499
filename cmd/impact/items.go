package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/eugenenazirov/ewaste-impact/internal/catalog"
	"github.com/eugenenazirov/ewaste-impact/internal/impact"
)

var (
	errItemFormat   = errors.New("expected id=quantity[@size]")
	errItemQuantity = errors.New("quantity must be a whole number")
	errItemSize     = errors.New("size must be a number")
)

type item struct {
	id       string
	quantity int
	size     float64
	hasSize  bool
}

// parseItem reads one "id=quantity[@size]" argument.
func parseItem(raw string) (item, error) {
	id, rest, ok := strings.Cut(strings.TrimSpace(raw), "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return item{}, fmt.Errorf("%q: %w", raw, errItemFormat)
	}

	qtyText, sizeText, hasSize := strings.Cut(rest, "@")
	qty, err := strconv.Atoi(strings.TrimSpace(qtyText))
	if err != nil {
		return item{}, fmt.Errorf("%q: %w", raw, errItemQuantity)
	}

	it := item{id: id, quantity: qty}
	if hasSize {
		size, err := strconv.ParseFloat(strings.TrimSpace(sizeText), 64)
		if err != nil {
			return item{}, fmt.Errorf("%q: %w", raw, errItemSize)
		}
		it.size = size
		it.hasSize = true
	}
	return it, nil
}

// buildSelection parses every argument and admits it into a selection.
// Negative quantities count as zero. Sizes are checked for known devices;
// unknown ids are kept so the report can list them as ignored. All problems
// are returned together.
func buildSelection(cat *catalog.Catalog, args []string) (*impact.Selection, error) {
	sel := impact.NewSelection()
	var result *multierror.Error

	for _, raw := range args {
		it, err := parseItem(raw)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if it.quantity <= 0 {
			continue
		}

		entry := impact.Entry{Quantity: it.quantity}
		if it.hasSize {
			if device, known := cat.Lookup(it.id); known {
				if err := device.ValidateSize(it.size); err != nil {
					result = multierror.Append(result, err)
					continue
				}
			}
			entry.Size = it.size
			entry.HasSize = true
		}

		if err := sel.Add(it.id, entry); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return sel, nil
}
