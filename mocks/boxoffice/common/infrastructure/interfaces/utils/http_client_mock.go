package utils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type HttpResponseData struct {
	Method     string
	Host       string //Optional if present, we match using Host as well
	Body       interface{}
	StatusCode int
	err        error
}

// MockClient is the mock client
type MockClient struct {
	// URL path to the response returned for it; the longest registered prefix wins
	Url2BodyMap map[string]HttpResponseData
	// Requests records every request passed to Do
	Requests []*http.Request
}

// Do is the mock client's `Do` func
func (m *MockClient) Do(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)

	matched := ""
	for path, responseData := range m.Url2BodyMap {
		if !strings.HasPrefix(req.URL.Path, path) || req.Method != responseData.Method {
			continue
		}
		if responseData.Host != "" && responseData.Host != req.URL.Host {
			continue
		}
		if len(path) > len(matched) {
			matched = path
		}
	}
	if matched != "" {
		responseData := m.Url2BodyMap[matched]
		if responseData.err != nil {
			return nil, responseData.err
		}
		bodyBytes, err := json.Marshal(responseData.Body)
		if err != nil {
			return nil, err
		}
		return &http.Response{
			StatusCode: responseData.StatusCode,
			Body:       io.NopCloser(bytes.NewReader(bodyBytes)),
		}, nil
	}
	// Return 404 if not found
	return &http.Response{
		StatusCode: 404,
		Body:       io.NopCloser(strings.NewReader(`{"status_message":"not found"}`)),
	}, nil
}

// Make sure that you assign this MockClient to global variable Client of type HTTPClient interface where we override the actual HTTPClient Do method
func NewMockClient() *MockClient {
	httpMockClient := new(MockClient)
	httpMockClient.Url2BodyMap = make(map[string]HttpResponseData)
	return httpMockClient
}

/*
Parameters are based on the order so we can provide variable parameters, other values are defaulted
parameters: url, body to be returned, httpstatus to be returned (default 200), error (default nil)
*/
func (m *MockClient) RegisterExternalMockRestCall(urlToMatch string, method string, responseData ...interface{}) {

	// Set the default body, then override if the parameters are provided
	httpResponseData := HttpResponseData{
		StatusCode: 200,
		Method:     method,
		Body:       nil,
		err:        nil,
	}

	for index, val := range responseData {
		switch index {
		case 0:
			httpResponseData.Body = val
		case 1:
			httpResponseData.StatusCode, _ = val.(int)
		case 2:
			httpResponseData.err, _ = val.(error)
		}
	}

	if strings.HasPrefix(urlToMatch, "http") {
		urlx, err := url.Parse(urlToMatch)
		if err == nil {
			httpResponseData.Host = urlx.Host
			m.Url2BodyMap[urlx.Path] = httpResponseData
			return
		}
	}
	m.Url2BodyMap[urlToMatch] = httpResponseData
}
