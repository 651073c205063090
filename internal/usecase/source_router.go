package usecase

import (
	"strings"

	"github.com/mrmps/SMRY-sub004/internal/entity"
	"github.com/mrmps/SMRY-sub004/internal/repository"
)

const DefaultArchivePrefix = "https://web.archive.org/web/2/"

// SourceRouter maps a strategy onto its extractor and retrieval URL.
type SourceRouter interface {
	Resolve(source entity.Source, url string) (repository.ArticleExtractor, string, error)
}

type sourceRouter struct {
	direct        repository.ArticleExtractor
	provider      repository.ArticleExtractor
	archive       repository.ArticleExtractor
	archivePrefix string
}

// NewSourceRouter wires the closed strategy set. The archive strategy reuses
// the provider backend with the target rewritten onto archivePrefix.
func NewSourceRouter(direct repository.ArticleExtractor, provider repository.ExtractionProvider, archivePrefix string) SourceRouter {
	if archivePrefix == "" {
		archivePrefix = DefaultArchivePrefix
	}
	return &sourceRouter{
		direct:        direct,
		provider:      newProviderExtractor(provider, entity.SourceThorough),
		archive:       newProviderExtractor(provider, entity.SourceArchive),
		archivePrefix: archivePrefix,
	}
}

func (r *sourceRouter) Resolve(source entity.Source, url string) (repository.ArticleExtractor, string, error) {
	switch source {
	case entity.SourceDirect:
		return r.direct, url, nil
	case entity.SourceThorough:
		return r.provider, url, nil
	case entity.SourceArchive:
		return r.archive, r.archiveURL(url), nil
	default:
		// Reuses ParseSource's messages, including the client-side redirect.
		if _, err := entity.ParseSource(string(source)); err != nil {
			return nil, "", err
		}
		return nil, "", entity.NewValidationError("unsupported source", map[string]any{"source": string(source)})
	}
}

func (r *sourceRouter) archiveURL(url string) string {
	if strings.HasPrefix(url, r.archivePrefix) {
		return url
	}
	return r.archivePrefix + url
}
