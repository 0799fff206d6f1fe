// Package benchmark drives concurrent load against the HTTP API.
package benchmark

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// APIBenchmark sends a fixed number of requests with bounded concurrency
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	Cookie      *http.Cookie // session cookie sent with every request, optional
	Client      *http.Client
}

// BenchmarkResult summarises one run
type BenchmarkResult struct {
	URL            string         `json:"url"`
	Method         string         `json:"method"`
	Concurrency    int            `json:"concurrency"`
	TotalRequests  int            `json:"total_requests"`
	SuccessCount   int            `json:"success_count"`
	FailureCount   int            `json:"failure_count"`
	TotalTime      time.Duration  `json:"total_time"`
	AverageTime    time.Duration  `json:"average_time"`
	MinTime        time.Duration  `json:"min_time"`
	MaxTime        time.Duration  `json:"max_time"`
	P95Time        time.Duration  `json:"p95_time"`
	RequestsPerSec float64        `json:"requests_per_sec"`
	StatusCodes    map[int]int    `json:"status_codes"`
	CacheResults   map[string]int `json:"cache_results"` // counts of X-Cache values
	Errors         []string       `json:"errors"`
}

type requestResult struct {
	duration   time.Duration
	statusCode int
	cache      string
	err        error
}

// NewAPIBenchmark creates a benchmark against baseURL
func NewAPIBenchmark(baseURL string, concurrency, requests int) *APIBenchmark {
	if concurrency < 1 {
		concurrency = 1
	}
	return &APIBenchmark{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RunGET benchmarks a GET request
func (b *APIBenchmark) RunGET(path string) *BenchmarkResult {
	return b.run(http.MethodGet, b.BaseURL+path, nil)
}

// RunJSON benchmarks a request with a JSON body
func (b *APIBenchmark) RunJSON(method, path string, payload interface{}) *BenchmarkResult {
	url := b.BaseURL + path
	data, err := json.Marshal(payload)
	if err != nil {
		return &BenchmarkResult{
			URL:    url,
			Method: method,
			Errors: []string{fmt.Sprintf("encode payload: %v", err)},
		}
	}
	return b.run(method, url, data)
}

func (b *APIBenchmark) do(method, url string, payload []byte) requestResult {
	start := time.Now()
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return requestResult{err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.Cookie != nil {
		req.AddCookie(b.Cookie)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return requestResult{err: err}
	}
	defer resp.Body.Close()

	return requestResult{
		duration:   time.Since(start),
		statusCode: resp.StatusCode,
		cache:      resp.Header.Get("X-Cache"),
	}
}

func (b *APIBenchmark) run(method, url string, payload []byte) *BenchmarkResult {
	results := make(chan requestResult, b.Requests)
	var wg sync.WaitGroup
	limiter := make(chan struct{}, b.Concurrency)

	startTime := time.Now()
	for i := 0; i < b.Requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()
			results <- b.do(method, url, payload)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	result := &BenchmarkResult{
		URL:           url,
		Method:        method,
		Concurrency:   b.Concurrency,
		TotalRequests: b.Requests,
		StatusCodes:   make(map[int]int),
		CacheResults:  make(map[string]int),
	}

	var durations []time.Duration
	var total time.Duration
	for r := range results {
		if r.err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, r.err.Error())
			continue
		}

		durations = append(durations, r.duration)
		total += r.duration
		result.StatusCodes[r.statusCode]++
		if r.cache != "" {
			result.CacheResults[r.cache]++
		}
		if r.statusCode >= 200 && r.statusCode < 300 {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
	}

	result.TotalTime = time.Since(startTime)
	if result.TotalTime > 0 {
		result.RequestsPerSec = float64(b.Requests) / result.TotalTime.Seconds()
	}
	if len(durations) > 0 {
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		result.MinTime = durations[0]
		result.MaxTime = durations[len(durations)-1]
		result.P95Time = durations[(len(durations)*95+99)/100-1]
		result.AverageTime = total / time.Duration(len(durations))
	}
	return result
}

// Log writes the result to logger
func (r *BenchmarkResult) Log(logger logrus.FieldLogger) {
	logger.WithFields(logrus.Fields{
		"method":      r.Method,
		"url":         r.URL,
		"concurrency": r.Concurrency,
		"requests":    r.TotalRequests,
		"success":     r.SuccessCount,
		"failure":     r.FailureCount,
		"avg":         r.AverageTime.String(),
		"p95":         r.P95Time.String(),
		"max":         r.MaxTime.String(),
		"rps":         fmt.Sprintf("%.2f", r.RequestsPerSec),
		"status":      r.StatusCodes,
		"cache":       r.CacheResults,
	}).Info("benchmark finished")

	for i, err := range r.Errors {
		if i >= 5 {
			logger.Warnf("... %d more errors", len(r.Errors)-5)
			break
		}
		logger.Warn(err)
	}
}
