package usecase

import (
	"github.com/m-mizutani/gollem"
	"github.com/vesperants/najir-agent/pkg/domain/interfaces"
	"github.com/vesperants/najir-agent/pkg/service/extract"
	"github.com/vesperants/najir-agent/pkg/service/lookup"
)

type UseCases struct {
	Chat    *ChatUseCase
	Search  *SearchUseCase
	Detail  *DetailUseCase
	Session *SessionUseCase

	routerConfig *RouterConfig
	extractor    *extract.Extractor
	batchOpts    []lookup.BatchOption
	llm          gollem.LLMClient
}

type Option func(*UseCases)

// WithRouterConfig replaces the default keyword vocabularies
func WithRouterConfig(cfg *RouterConfig) Option {
	return func(uc *UseCases) {
		uc.routerConfig = cfg
	}
}

// WithExtractor replaces the default identifier extractor
func WithExtractor(x *extract.Extractor) Option {
	return func(uc *UseCases) {
		uc.extractor = x
	}
}

// WithBatchOptions configures the detail batch fetcher
func WithBatchOptions(opts ...lookup.BatchOption) Option {
	return func(uc *UseCases) {
		uc.batchOpts = append(uc.batchOpts, opts...)
	}
}

// WithFallbackLLM sets the general-purpose model used for fallback replies
func WithFallbackLLM(llm gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llm = llm
	}
}

func New(repo interfaces.SessionRepository, backend interfaces.SessionBackend, searcher interfaces.CaseSearcher, caseLookup interfaces.CaseLookup, opts ...Option) *UseCases {
	uc := &UseCases{}
	for _, opt := range opts {
		opt(uc)
	}

	uc.Session = NewSessionUseCase(repo, backend)
	uc.Search = NewSearchUseCase(searcher)
	uc.Detail = NewDetailUseCase(lookup.NewBatch(caseLookup, uc.batchOpts...))

	router := NewRouter(uc.routerConfig, uc.extractor)
	uc.Chat = NewChatUseCase(uc.Session, router, uc.Search, uc.Detail, uc.llm)

	return uc
}
