package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"disasterconnect-http-service/internal/infrastructure/storage"

	"github.com/goccy/go-json"
	"github.com/sashabaranov/go-openai"
)

type fakeChat struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	reply := ""
	if len(f.replies) > 0 {
		reply = f.replies[0]
		if len(f.replies) > 1 {
			f.replies = f.replies[1:]
		}
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply}},
		},
	}, nil
}

func (f *fakeChat) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

var errCacheMiss = errors.New("cache miss")

type memoryRedis struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{data: map[string][]byte{}}
}

func (m *memoryRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func (m *memoryRedis) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	b, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return errCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (m *memoryRedis) Ping(ctx context.Context) error { return nil }

// stubClassifier returns fixed labels and counts calls
type stubClassifier struct {
	mu            sync.Mutex
	typeLabel     string
	severityLabel string
	severityCalls int
	typeCalls     int
}

func (s *stubClassifier) ClassifyType(ctx context.Context, description string) Classification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typeCalls++
	return Classification{Label: s.typeLabel, Confidence: 0.9, Explanation: "stub"}
}

func (s *stubClassifier) ClassifySeverity(ctx context.Context, description string) Classification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.severityCalls++
	if s.severityLabel != "" {
		return Classification{Label: s.severityLabel, Confidence: 0.8, Explanation: "stub"}
	}
	return Classification{Label: KeywordSeverity(description), Confidence: 0.8, Explanation: "stub"}
}

// recordingStore is an image store that remembers deletions
type recordingStore struct {
	mu      sync.Mutex
	fail    bool
	stored  int
	deleted []string
}

func (r *recordingStore) Store(ctx context.Context, file *storage.File, baseURL string) (*storage.StoredImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, storage.ErrNoBackend
	}
	r.stored++
	return &storage.StoredImage{URL: baseURL + "/uploads/" + file.Name, Key: file.Name, Backend: storage.BackendLocal}, nil
}

func (r *recordingStore) Delete(ctx context.Context, backend, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, backend+":"+key)
	return nil
}
