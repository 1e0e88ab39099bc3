/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	svcErrors "boxoffice/common/errors"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const (
	ColBudget      = "budget"
	ColRevenue     = "revenue"
	ColPopularity  = "popularity"
	ColRuntime     = "runtime"
	ColVoteAverage = "vote_average"
	ColVoteCount   = "vote_count"
)

// RequiredColumns are the columns a training file must carry; any other column is ignored
var RequiredColumns = []string{ColBudget, ColRevenue, ColPopularity, ColRuntime, ColVoteAverage, ColVoteCount}

// Movie is one row of the training file. Missing cells are NaN.
type Movie struct {
	Budget      float64
	Revenue     float64
	Popularity  float64
	Runtime     float64
	VoteAverage float64
	VoteCount   float64
}

func (m *Movie) fieldRef(column string) *float64 {
	switch column {
	case ColBudget:
		return &m.Budget
	case ColRevenue:
		return &m.Revenue
	case ColPopularity:
		return &m.Popularity
	case ColRuntime:
		return &m.Runtime
	case ColVoteAverage:
		return &m.VoteAverage
	case ColVoteCount:
		return &m.VoteCount
	}
	return nil
}

func newEmptyMovie() Movie {
	nan := math.NaN()
	return Movie{Budget: nan, Revenue: nan, Popularity: nan, Runtime: nan, VoteAverage: nan, VoteCount: nan}
}

// LoadFile reads the training CSV at path
func LoadFile(path string) ([]Movie, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset, fmt.Sprintf("failed to open dataset %s: %v", path, err))
	}
	defer file.Close()
	return Load(file)
}

// Load parses a CSV with a header row. All required columns must be present,
// otherwise a DatasetError naming every missing column is returned.
func Load(r io.Reader) ([]Movie, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset, "dataset is empty")
	}
	if err != nil {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset, fmt.Sprintf("failed to read dataset header: %v", err))
	}

	columnIndex := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columnIndex[name]; !dup {
			columnIndex[name] = i
		}
	}

	var missing error
	for _, col := range RequiredColumns {
		if _, ok := columnIndex[col]; !ok {
			missing = multierror.Append(missing, fmt.Errorf("missing required column %q", col))
		}
	}
	if missing != nil {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset, missing.Error())
	}

	movies := make([]Movie, 0, 1024)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset, fmt.Sprintf("failed to read dataset line %d: %v", line, err))
		}

		movie := newEmptyMovie()
		for _, col := range RequiredColumns {
			idx := columnIndex[col]
			if idx >= len(record) {
				continue
			}
			value, err := parseCell(record[idx])
			if err != nil {
				return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset,
					errors.Wrapf(err, "line %d column %s", line, col).Error())
			}
			*movie.fieldRef(col) = value
		}
		movies = append(movies, movie)
	}
	return movies, nil
}

// parseCell returns NaN for the empty and null spellings pandas treats as missing
func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "nan", "na", "n/a", "null", "none":
		return math.NaN(), nil
	}
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not numeric", cell)
	}
	return value, nil
}
