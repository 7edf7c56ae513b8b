package rag_test

import (
	"context"

	"github.com/agropro-ai/agropro/internal/rag/llm"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex"
)

// MockProvider implements llm.Provider and records every prompt it sees.
type MockProvider struct {
	OnGenerate func(ctx context.Context, prompt string) (llm.Reply, error)
	Prompts    []string
}

func (m *MockProvider) Generate(ctx context.Context, prompt string) (llm.Reply, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return llm.TextReply("mocked llm response"), nil
}

func (m *MockProvider) Name() string { return "mock" }

// MockIndex implements vectorindex.Index.
type MockIndex struct {
	OnQuery func(ctx context.Context, text string, k int) ([]vectorindex.Match, error)
	Size    int
}

func (m *MockIndex) Query(ctx context.Context, text string, k int) ([]vectorindex.Match, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, text, k)
	}
	return nil, nil
}

func (m *MockIndex) Len() int { return m.Size }

// MockIndexStore implements vectorindex.Store.
type MockIndexStore struct {
	OnBuild  func(ctx context.Context, sessionId string, chunks []string) (vectorindex.Index, error)
	OnLoad   func(ctx context.Context, sessionId string) (vectorindex.Index, error)
	OnRemove func(ctx context.Context, sessionId string) error
}

func (m *MockIndexStore) Build(ctx context.Context, sessionId string, chunks []string) (vectorindex.Index, error) {
	if m.OnBuild != nil {
		return m.OnBuild(ctx, sessionId, chunks)
	}
	return &MockIndex{Size: len(chunks)}, nil
}

func (m *MockIndexStore) Add(ctx context.Context, idx vectorindex.Index, chunks []string) (vectorindex.Index, error) {
	return idx, nil
}

func (m *MockIndexStore) Load(ctx context.Context, sessionId string) (vectorindex.Index, error) {
	if m.OnLoad != nil {
		return m.OnLoad(ctx, sessionId)
	}
	return nil, nil
}

func (m *MockIndexStore) Remove(ctx context.Context, sessionId string) error {
	if m.OnRemove != nil {
		return m.OnRemove(ctx, sessionId)
	}
	return nil
}
