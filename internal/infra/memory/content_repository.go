package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
)

// ContentLoader fetches game content from a backing store (e.g., Postgres).
type ContentLoader interface {
	LoadMissions(ctx context.Context) ([]domain.Mission, error)
	LoadQuizPool(ctx context.Context) ([]domain.QuizQuestion, error)
}

// ContentRepository caches the mission set and quiz pool with TTL to avoid
// repeated backing-store hits.
type ContentRepository struct {
	loader ContentLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedContent
}

type cachedContent struct {
	missions  []domain.Mission
	questions []domain.QuizQuestion
	expiresAt time.Time
}

const (
	missionsKey = "missions"
	quizPoolKey = "quiz_pool"
)

func NewContentRepository(loader ContentLoader, ttl time.Duration) *ContentRepository {
	return &ContentRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedContent),
	}
}

func (r *ContentRepository) GetMissions(ctx context.Context) ([]domain.Mission, error) {
	entry, err := r.get(ctx, missionsKey, func(ctx context.Context) (cachedContent, error) {
		missions, err := r.loader.LoadMissions(ctx)
		if err != nil {
			return cachedContent{}, err
		}
		return cachedContent{missions: missions}, nil
	})
	if err != nil {
		return nil, err
	}
	return entry.missions, nil
}

func (r *ContentRepository) GetQuizPool(ctx context.Context) ([]domain.QuizQuestion, error) {
	entry, err := r.get(ctx, quizPoolKey, func(ctx context.Context) (cachedContent, error) {
		questions, err := r.loader.LoadQuizPool(ctx)
		if err != nil {
			return cachedContent{}, err
		}
		return cachedContent{questions: questions}, nil
	})
	if err != nil {
		return nil, err
	}
	return entry.questions, nil
}

func (r *ContentRepository) get(ctx context.Context, key string, fill func(context.Context) (cachedContent, error)) (cachedContent, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry, nil
		}
		r.mu.RUnlock()

		entry, err := fill(ctx)
		if err != nil {
			return cachedContent{}, err
		}
		entry.expiresAt = now.Add(r.ttlWithJitter())

		r.mu.Lock()
		r.cache[key] = entry
		r.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return cachedContent{}, err
	}
	return result.(cachedContent), nil
}

func (r *ContentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticContentLoader serves fixed in-memory content (the bundled defaults,
// and test fixtures).
type StaticContentLoader struct {
	missions  []domain.Mission
	questions []domain.QuizQuestion
}

func NewStaticContentLoader(missions []domain.Mission, questions []domain.QuizQuestion) *StaticContentLoader {
	return &StaticContentLoader{missions: missions, questions: questions}
}

func (l *StaticContentLoader) LoadMissions(context.Context) ([]domain.Mission, error) {
	if len(l.missions) == 0 {
		return nil, domain.ErrNoContent
	}
	return l.missions, nil
}

func (l *StaticContentLoader) LoadQuizPool(context.Context) ([]domain.QuizQuestion, error) {
	if len(l.questions) == 0 {
		return nil, domain.ErrNoContent
	}
	return l.questions, nil
}
