/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"boxoffice/common/client"
	svcErrors "boxoffice/common/errors"
	"boxoffice/revenue-ml-service/pkg/dto/config"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// MovieRecord is one film with known budget and revenue
type MovieRecord struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Budget      float64 `json:"budget"`
	Revenue     float64 `json:"revenue"`
	Popularity  float64 `json:"popularity"`
	Runtime     float64 `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   float64 `json:"vote_count"`
	ReleaseDate string  `json:"release_date"`
}

// HasBoxOffice reports whether both budget and revenue are known
func (m MovieRecord) HasBoxOffice() bool {
	return m.Budget > 0 && m.Revenue > 0
}

type discoverPage struct {
	Page       int64 `json:"page"`
	TotalPages int64 `json:"total_pages"`
	Results    []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"results"`
}

type apiError struct {
	StatusCode    int64  `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

type Client struct {
	lc         logger.LoggingClient
	httpClient client.HTTPClient
	baseURL    string
	apiKey     string
	language   string
	limiter    *rate.Limiter
}

func NewClient(lc logger.LoggingClient, httpClient client.HTTPClient, cfg config.TMDBConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeConfig,
			fmt.Sprintf("TMDB API key is not configured, set TMDB.APIKey or %s", config.EnvTmdbApiKey))
	}
	limit := rate.Inf
	if cfg.DetailIntervalMs > 0 {
		limit = rate.Every(time.Duration(cfg.DetailIntervalMs) * time.Millisecond)
	}
	return &Client{
		lc:         lc,
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

// Discover returns the ids of one page of films released in year, highest revenue first
func (c *Client) Discover(ctx context.Context, year, page int64) ([]int64, error) {
	params := url.Values{}
	params.Set("primary_release_year", strconv.FormatInt(year, 10))
	params.Set("page", strconv.FormatInt(page, 10))
	params.Set("sort_by", "revenue.desc")

	var result discoverPage
	if err := c.getJSON(ctx, "/discover/movie", params, &result); err != nil {
		return nil, errors.Wrapf(err, "discover year %d page %d", year, page)
	}
	ids := make([]int64, 0, len(result.Results))
	for _, movie := range result.Results {
		ids = append(ids, movie.ID)
	}
	return ids, nil
}

// MovieDetails fetches the full record of one film
func (c *Client) MovieDetails(ctx context.Context, id int64) (MovieRecord, error) {
	var movie MovieRecord
	if err := c.getJSON(ctx, "/movie/"+strconv.FormatInt(id, 10), url.Values{}, &movie); err != nil {
		return MovieRecord{}, errors.Wrapf(err, "movie %d", id)
	}
	return movie, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set(client.HeaderAccept, client.ContentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.StatusMessage != "" {
			return fmt.Errorf("TMDB returned %d: %s", resp.StatusCode, apiErr.StatusMessage)
		}
		return fmt.Errorf("TMDB returned %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}
