// Package catalog loads product listings into the product repository.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository"
)

const (
	colBrand         = "brand"
	colModel         = "model"
	colColor         = "color"
	colMemory        = "memory"
	colStorage       = "storage"
	colRating        = "rating"
	colSellingPrice  = "selling price"
	colOriginalPrice = "original price"
	colPhotos        = "photos"
)

var requiredColumns = []string{
	colBrand, colModel, colColor, colMemory, colStorage,
	colRating, colSellingPrice, colOriginalPrice,
}

// Parse reads a listing export with a header row. Rows missing any required
// value are skipped and counted, so incomplete listings never reach search.
func Parse(r io.Reader) ([]domain.Product, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, 0, fmt.Errorf("missing column %q", col)
		}
	}

	var (
		products []domain.Product
		skipped  int
		seen     = map[string]struct{}{}
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read line %d: %w", line, err)
		}

		p, ok := parseRecord(record, index)
		if !ok {
			skipped++
			continue
		}
		if _, dup := seen[p.ID]; dup {
			skipped++
			continue
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}
	return products, skipped, nil
}

func parseRecord(record []string, index map[string]int) (domain.Product, bool) {
	field := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	for _, col := range requiredColumns {
		if field(col) == "" {
			return domain.Product{}, false
		}
	}

	rating, err := parseNumber(field(colRating))
	if err != nil {
		return domain.Product{}, false
	}
	selling, err := parseNumber(field(colSellingPrice))
	if err != nil {
		return domain.Product{}, false
	}
	original, err := parseNumber(field(colOriginalPrice))
	if err != nil {
		return domain.Product{}, false
	}

	p := domain.Product{
		Brand:         field(colBrand),
		Model:         field(colModel),
		Color:         field(colColor),
		Memory:        field(colMemory),
		Storage:       field(colStorage),
		Rating:        rating,
		SellingPrice:  selling,
		OriginalPrice: original,
		Photos:        domain.SplitPhotos(field(colPhotos)),
	}
	p.ID = domain.ProductIDFor(p.Brand, p.Model, p.Color, p.Memory, p.Storage)
	return p, true
}

func parseNumber(v string) (float64, error) {
	v = strings.NewReplacer(",", "", "₹", "").Replace(v)
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

// SeedFile upserts every complete listing from the CSV at path and returns how many were stored.
func SeedFile(ctx context.Context, path string, products repository.ProductRepository, logger logrus.FieldLogger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	parsed, skipped, err := Parse(f)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := products.Upsert(ctx, parsed); err != nil {
		return 0, err
	}
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"file":    path,
			"loaded":  len(parsed),
			"skipped": skipped,
		}).Info("catalog seeded")
	}
	return len(parsed), nil
}
