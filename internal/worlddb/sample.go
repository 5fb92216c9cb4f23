package worlddb

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Sample is the embedded sample dataset decoded into domain values.
type Sample struct {
	Countries []core.Country
	Cities    []core.City
	Languages []core.CountryLanguage
}

// LoadSampleData decodes the embedded sample CSV files.
func LoadSampleData() (*Sample, error) {
	var s Sample

	err := readSample("country", func(r []string) error {
		population, err := parseInt(r[4])
		if err != nil {
			return err
		}
		capital, err := parseInt(r[5])
		if err != nil {
			return err
		}
		s.Countries = append(s.Countries, core.Country{
			Code: r[0], Name: r[1], Continent: r[2], Region: r[3],
			Population: population, Capital: capital,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readSample("city", func(r []string) error {
		id, err := parseInt(r[0])
		if err != nil {
			return err
		}
		population, err := parseInt(r[4])
		if err != nil {
			return err
		}
		s.Cities = append(s.Cities, core.City{
			ID: id, Name: r[1], CountryCode: r[2], District: r[3], Population: population,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readSample("countrylanguage", func(r []string) error {
		pct, err := strconv.ParseFloat(r[3], 64)
		if err != nil {
			return err
		}
		s.Languages = append(s.Languages, core.CountryLanguage{
			CountryCode: r[0], Language: r[1], IsOfficial: r[2] == "T", Percentage: pct,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func readSample(table string, row func([]string) error) error {
	f, err := sampleData.Open("data/" + table + ".csv")
	if err != nil {
		return fmt.Errorf("failed to open sample %s: %w", table, err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read sample %s: %w", table, err)
	}

	for i, r := range records[1:] {
		if err := row(r); err != nil {
			return fmt.Errorf("sample %s line %d: %w", table, i+2, err)
		}
	}
	return nil
}

// parseInt reads an optional integer column; empty means 0.
func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
