package dataset

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	svcErrors "boxoffice/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,title,budget,revenue,popularity,runtime,vote_average,vote_count,overview
1,"Alpha, the movie",1000000,5000000,10.5,100,6.5,300,"long text, with commas"
2,Beta,2000000,,12,90,7,100,
3,Gamma,,800000,3,80,5,10,
4,Delta,3000000,9000000,20,,8,2000,
5,Epsilon,500000,700000,1.5,120,6,50,
`

func TestLoad(t *testing.T) {
	movies, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, movies, 5)

	assert.Equal(t, 1000000.0, movies[0].Budget)
	assert.Equal(t, 10.5, movies[0].Popularity)
	assert.True(t, math.IsNaN(movies[1].Revenue))
	assert.True(t, math.IsNaN(movies[2].Budget))
	assert.True(t, math.IsNaN(movies[3].Runtime))
	assert.Equal(t, 50.0, movies[4].VoteCount)
}

func TestLoad_MissingColumnsReportedTogether(t *testing.T) {
	_, err := Load(strings.NewReader("budget,revenue,popularity\n1,2,3\n"))
	require.Error(t, err)

	svcErr := svcErrors.AsServiceError(err)
	assert.True(t, svcErr.IsErrorType(svcErrors.ErrorTypeDataset))
	assert.Contains(t, err.Error(), `"runtime"`)
	assert.Contains(t, err.Error(), `"vote_average"`)
	assert.Contains(t, err.Error(), `"vote_count"`)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := Load(strings.NewReader(""))
		assert.Error(t, err)
	})
	t.Run("non numeric cell", func(t *testing.T) {
		_, err := Load(strings.NewReader("budget,revenue,popularity,runtime,vote_average,vote_count\nabc,1,1,1,1,1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "column budget")
	})
	t.Run("short row leaves cells missing", func(t *testing.T) {
		movies, err := Load(strings.NewReader("budget,revenue,popularity,runtime,vote_average,vote_count\n1,2,3\n"))
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.True(t, math.IsNaN(movies[0].VoteCount))
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	movies, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, movies, 5)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestClean(t *testing.T) {
	movies, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	cleaned, stats, err := Clean(movies)
	require.NoError(t, err)
	require.Len(t, cleaned, 3)
	assert.Equal(t, 5, stats.RawRows)
	assert.Equal(t, 2, stats.DroppedMissing)
	assert.Equal(t, 1, stats.RuntimeFilled)
	// median of the runtimes left after dropping rows 2 and 3: {100, 120}
	assert.Equal(t, 110.0, stats.RuntimeFillValue)
	assert.Equal(t, 110.0, cleaned[1].Runtime)
}

func TestClean_Errors(t *testing.T) {
	nan := math.NaN()

	t.Run("nothing left", func(t *testing.T) {
		_, _, err := Clean([]Movie{{Budget: nan, Revenue: 1}})
		assert.Error(t, err)
	})
	t.Run("no runtime anywhere", func(t *testing.T) {
		_, _, err := Clean([]Movie{{Budget: 1, Revenue: 1, Runtime: nan}})
		assert.Error(t, err)
	})
	t.Run("missing vote count", func(t *testing.T) {
		_, _, err := Clean([]Movie{{Budget: 1, Revenue: 1, Runtime: 90, VoteCount: nan}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ColVoteCount)
	})
}

func TestPercentile(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[100-1-i] = float64(i + 1)
	}

	assert.InDelta(t, 99.01, Percentile(values, 99), 1e-9)
	assert.InDelta(t, 50.5, Percentile(values, 50), 1e-9)
	assert.Equal(t, 1.0, Percentile(values, 0))
	assert.Equal(t, 100.0, Percentile(values, 100))
	// input order is untouched
	assert.Equal(t, 100.0, values[0])

	assert.Equal(t, 7.0, Percentile([]float64{7}, 99))
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestFilterOutliers(t *testing.T) {
	movies := make([]Movie, 100)
	for i := range movies {
		movies[i] = Movie{Budget: float64(i + 1), Revenue: 10}
	}

	kept, thresholds := FilterOutliers(movies, DefaultOutlierPercentile)
	assert.Len(t, kept, 99)
	assert.InDelta(t, 99.01, thresholds.Budget, 1e-9)
	assert.Equal(t, 10.0, thresholds.Revenue)
	for _, m := range kept {
		assert.NotEqual(t, 100.0, m.Budget)
	}
}

func TestFilterOutliers_ColumnsIndependent(t *testing.T) {
	movies := make([]Movie, 0, 200)
	for i := 0; i < 200; i++ {
		movies = append(movies, Movie{Budget: float64(i), Revenue: float64(200 - i)})
	}
	kept, thresholds := FilterOutliers(movies, 99)

	for _, m := range kept {
		assert.LessOrEqual(t, m.Budget, thresholds.Budget)
		assert.LessOrEqual(t, m.Revenue, thresholds.Revenue)
	}
	// the two top budgets and the two top revenues fall on different rows
	assert.Len(t, kept, 196)
}

func TestBuildProfile(t *testing.T) {
	movies := make([]Movie, 0, 1000)
	for i := 1; i <= 1000; i++ {
		movies = append(movies, Movie{Budget: float64(i), Revenue: float64(i * 10)})
	}
	movies = append(movies, Movie{Budget: math.NaN(), Revenue: math.NaN()})

	profile, err := BuildProfile(movies)
	require.NoError(t, err)
	assert.Equal(t, 1001, profile.Rows)
	assert.InDelta(t, 500, profile.Budget.P50, 15)
	assert.InDelta(t, 9000, profile.Revenue.P90, 150)
	assert.InDelta(t, 990, profile.Budget.P99, 15)

	empty, err := BuildProfile(nil)
	require.NoError(t, err)
	assert.Equal(t, Quantiles{}, empty.Budget, fmt.Sprintf("%+v", empty))
}
